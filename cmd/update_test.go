package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sqlpad/internal/config"
	"github.com/abhisek/sqlpad/internal/logging"
	"github.com/abhisek/sqlpad/internal/selfupdate"
)

func latestReleaseServer(t *testing.T, wantPath, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewUpdateCheckerUsesConfig(t *testing.T) {
	srv := latestReleaseServer(t, "/repos/acme/sqlpad-fork/releases/latest", "v9.0.0")

	checker, err := newUpdateChecker(config.UpdateConfig{
		Repository: "acme/sqlpad-fork",
		APIURL:     srv.URL,
		Timeout:    time.Second,
	}, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "acme/sqlpad-fork", checker.Repository())

	var out bytes.Buffer
	require.NoError(t, runUpdateCheck(context.Background(), &out, checker, "v1.0.0"))
	assert.Contains(t, out.String(), "sqlpad v9.0.0 is available")
	assert.Contains(t, out.String(), "https://example.com/v9.0.0")

	_, err = newUpdateChecker(config.UpdateConfig{Repository: "not-a-repo"}, nil)
	assert.Error(t, err)
}

func TestRunUpdateCheckUpToDate(t *testing.T) {
	srv := latestReleaseServer(t, "/repos/abhisek/sqlpad/releases/latest", "v1.0.0")
	checker, err := newUpdateChecker(config.UpdateConfig{APIURL: srv.URL}, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runUpdateCheck(context.Background(), &out, checker, "v1.0.0"))
	assert.Contains(t, out.String(), "up to date")
}

func TestRunUpdateExpectedOutcomes(t *testing.T) {
	srv := latestReleaseServer(t, "/repos/abhisek/sqlpad/releases/latest", "v1.0.0")
	checker, err := newUpdateChecker(config.UpdateConfig{APIURL: srv.URL}, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runUpdate(context.Background(), &out, checker, selfupdate.UpdateInput{CurrentVersion: "(devel)"}))
	assert.Contains(t, out.String(), "development build")

	out.Reset()
	require.NoError(t, runUpdate(context.Background(), &out, checker, selfupdate.UpdateInput{CurrentVersion: "v1.0.0"}))
	assert.Contains(t, out.String(), "Already running the latest version.")

	err = runUpdate(context.Background(), &out, checker, selfupdate.UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "nope"})
	assert.ErrorIs(t, err, selfupdate.ErrInvalidVersion)
}

func TestVersionLine(t *testing.T) {
	assert.Equal(t, "sqlpad v1.2.3", versionLine("v1.2.3", nil))

	info := &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	assert.Equal(t, "sqlpad (devel) (0123456789ab+dirty) go1.25.0", versionLine("(devel)", info))
}
