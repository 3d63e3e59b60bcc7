package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild       = errors.New("cannot update a development build")
	ErrAlreadyLatest  = errors.New("already running the latest version")
	ErrChecksum       = errors.New("checksum verification failed")
	ErrInvalidVersion = errors.New("invalid release version")
)

// devVersion is the version string of binaries built without -ldflags.
const devVersion = "(devel)"

// maxDownloadSize caps any single release file.
const maxDownloadSize = 256 << 20

// Stage names a step of an update, in the order they run.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

// UpdateInput selects the update. An empty TargetVersion means the latest
// release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

type UpdateProgress struct {
	Stage   Stage
	Message string
}

// UpdateResult describes an applied update.
type UpdateResult struct {
	From string
	To   string
	Path string
}

// releaseFiles locates the assets of one tagged release.
type releaseFiles struct {
	tag          string
	asset        string
	assetURL     string
	checksumsURL string
}

func (c *Checker) releaseFiles(tag, asset string) releaseFiles {
	root := fmt.Sprintf("%s/%s/%s/releases/download/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag)
	return releaseFiles{
		tag:          tag,
		asset:        asset,
		assetURL:     root + "/" + asset,
		checksumsURL: root + "/checksums.txt",
	}
}

// Update downloads the release for the running platform, verifies it
// against the release checksums and replaces the executable. progress may
// be nil.
func (c *Checker) Update(ctx context.Context, input UpdateInput, progress func(UpdateProgress)) (*UpdateResult, error) {
	report := func(stage Stage, msg string) {
		c.logger.Info("self-update", "stage", stage, "repository", c.Repository(), "detail", msg)
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: msg})
		}
	}

	if input.CurrentVersion == devVersion || input.CurrentVersion == "" {
		return nil, ErrDevBuild
	}

	tag, err := c.resolveTarget(ctx, input, report)
	if err != nil {
		return nil, err
	}

	asset, err := assetName()
	if err != nil {
		return nil, err
	}
	files := c.releaseFiles(tag, asset)

	report(StageDownload, fmt.Sprintf("Downloading %s...", tag))
	archive, err := c.download(ctx, files.assetURL)
	if err != nil {
		return nil, fmt.Errorf("download archive: %w", err)
	}

	report(StageVerify, "Verifying checksum...")
	if err := c.verifyRelease(ctx, files, archive); err != nil {
		c.logger.Error("self-update verification failed", "tag", tag, "asset", asset, "error", err)
		return nil, err
	}

	report(StageExtract, "Extracting binary...")
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return nil, fmt.Errorf("extract binary: %w", err)
	}

	report(StageApply, "Applying update...")
	target, err := c.execPath()
	if err != nil {
		return nil, fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceExecutable(target, binary); err != nil {
		return nil, fmt.Errorf("apply update: %w", err)
	}

	report(StageDone, fmt.Sprintf("Updated to %s", tag))
	return &UpdateResult{From: input.CurrentVersion, To: tag, Path: target}, nil
}

// resolveTarget returns the tag to install. A pinned target must be a valid
// version and differ from the current one.
func (c *Checker) resolveTarget(ctx context.Context, input UpdateInput, report func(Stage, string)) (string, error) {
	if input.TargetVersion != "" {
		tag := canonical(input.TargetVersion)
		if !semver.IsValid(tag) {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, input.TargetVersion)
		}
		if semver.Compare(tag, canonical(input.CurrentVersion)) == 0 {
			return "", ErrAlreadyLatest
		}
		return tag, nil
	}

	report(StageCheck, "Checking for latest version...")
	result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return result.LatestVersion, nil
}

func (c *Checker) verifyRelease(ctx context.Context, files releaseFiles, archive []byte) error {
	sums, err := c.download(ctx, files.checksumsURL)
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[files.asset]
	if !ok {
		return fmt.Errorf("%w: no entry for %s in checksums.txt", ErrChecksum, files.asset)
	}
	return verifyChecksum(archive, want)
}

func (c *Checker) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, maxDownloadSize)
	}
	c.logger.Debug("downloaded release file", "url", url, "bytes", len(data))
	return data, nil
}

func assetName() (string, error) {
	return assetNameFor(runtime.GOOS, runtime.GOARCH)
}

// assetNameFor follows the goreleaser archive names of sqlpad releases.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return "sqlpad_Darwin_all.tar.gz", nil
	}

	var osName, ext string
	switch goos {
	case "linux":
		osName, ext = "Linux", ".tar.gz"
	case "windows":
		osName, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}

	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	return "sqlpad_" + osName + "_" + arch + ext, nil
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}
