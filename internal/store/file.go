package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const fileKVVersion = 1

type fileKVData struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// FileKV keeps all entries in one JSON document, rewritten atomically
// (temp file, fsync, rename) on every mutation.
type FileKV struct {
	mu   sync.RWMutex
	path string
	data fileKVData
}

// OpenFileKV opens or creates the JSON store at path.
func OpenFileKV(path string) (*FileKV, error) {
	kv := &FileKV{
		path: path,
		data: fileKVData{Version: fileKVVersion, Entries: make(map[string]string)},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	if err := kv.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return kv, nil
}

func (f *FileKV) load() error {
	fh, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()

	raw, err := io.ReadAll(fh)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var data fileKVData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreCorrupted, err)
	}
	if data.Version > fileKVVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrStoreCorrupted, data.Version)
	}
	if data.Entries == nil {
		data.Entries = make(map[string]string)
	}
	f.data = data
	return nil
}

// syncLocked must be called with the write lock held.
func (f *FileKV) syncLocked() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmpPath := f.path + ".tmp"
	fh, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrStorePersist, err)
	}
	if _, err := fh.Write(raw); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write: %v", ErrStorePersist, err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync: %v", ErrStorePersist, err)
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close: %v", ErrStorePersist, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrStorePersist, err)
	}
	return nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data.Entries[key]
	return v, ok, nil
}

func (f *FileKV) Put(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data.Entries[key]
	f.data.Entries[key] = value
	if err := f.syncLocked(); err != nil {
		if had {
			f.data.Entries[key] = prev
		} else {
			delete(f.data.Entries, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data.Entries[key]
	if !had {
		return nil
	}
	delete(f.data.Entries, key)
	if err := f.syncLocked(); err != nil {
		f.data.Entries[key] = prev
		return err
	}
	return nil
}
