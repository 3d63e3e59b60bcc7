// Package selfupdate replaces the running sqlpad binary with a GitHub
// release build.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/abhisek/sqlpad/internal/logging"
)

const (
	defaultOwner           = "abhisek"
	defaultRepo            = "sqlpad"
	defaultBaseURL         = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
)

// Checker resolves releases of one GitHub repository and installs them.
type Checker struct {
	owner           string
	repo            string
	baseURL         string
	downloadBaseURL string
	client          *http.Client
	logger          *slog.Logger
	execPath        func() (string, error)
}

type Option func(*Checker)

// WithRepository points the checker at owner/repo.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

// WithBaseURL sets the GitHub API root. Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(c *Checker) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithDownloadBaseURL sets the root release assets are served from. Empty
// keeps the default.
func WithDownloadBaseURL(u string) Option {
	return func(c *Checker) {
		if u != "" {
			c.downloadBaseURL = u
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) { c.client = client }
}

// WithTimeout bounds each HTTP request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = logging.OrDiscard(l) }
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		owner:           defaultOwner,
		repo:            defaultRepo,
		baseURL:         defaultBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		client:          &http.Client{Timeout: 60 * time.Second},
		logger:          logging.Discard(),
		execPath:        os.Executable,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ParseRepository splits an "owner/name" repository reference.
func ParseRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", s)
	}
	return owner, repo, nil
}

// Repository is the owner/name the checker reads releases from.
func (c *Checker) Repository() string {
	return c.owner + "/" + c.repo
}

type CheckInput struct {
	Version string
}

type CheckResult struct {
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check fetches the latest release and compares it with input.Version. An
// unparseable current version always reports an update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	res := &CheckResult{
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: isNewer(rel.TagName, input.Version),
	}
	c.logger.Debug("checked latest release",
		"repository", c.Repository(), "current", input.Version,
		"latest", res.LatestVersion, "update_available", res.UpdateAvailable)
	return res, nil
}

func isNewer(latest, current string) bool {
	l, c := canonical(latest), canonical(current)
	if !semver.IsValid(l) {
		return false
	}
	if !semver.IsValid(c) {
		return true
	}
	return semver.Compare(l, c) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
