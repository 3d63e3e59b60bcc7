package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckComparesVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/sqlpad-fork/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v1.2.0","html_url":"https://example.com/v1.2.0"}`))
	}))
	defer server.Close()

	checker := NewChecker(WithRepository("acme", "sqlpad-fork"), WithBaseURL(server.URL))
	for _, tc := range []struct {
		current string
		want    bool
	}{
		{"v1.1.9", true},
		{"1.1.0", true},
		{"v1.2.0", false},
		{"v1.3.0", false},
		{"garbage", true},
	} {
		res, err := checker.Check(context.Background(), &CheckInput{Version: tc.current})
		require.NoError(t, err)
		assert.Equal(t, "v1.2.0", res.LatestVersion)
		assert.Equal(t, "https://example.com/v1.2.0", res.ReleaseURL)
		assert.Equal(t, tc.want, res.UpdateAvailable, "current=%s", tc.current)
	}
}

func TestCheckHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewChecker(WithBaseURL(server.URL)).Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestNewCheckerOptions(t *testing.T) {
	c := NewChecker(
		WithRepository("acme", "fork"),
		WithBaseURL(""),
		WithDownloadBaseURL("https://ghe.example.com"),
		WithTimeout(0),
	)
	assert.Equal(t, "acme/fork", c.Repository())
	assert.Equal(t, defaultBaseURL, c.baseURL, "empty URL keeps the default")
	assert.Equal(t, "https://ghe.example.com", c.downloadBaseURL)
	assert.Equal(t, 60*time.Second, c.client.Timeout, "zero timeout keeps the default")

	c = NewChecker(WithTimeout(5 * time.Second))
	assert.Equal(t, 5*time.Second, c.client.Timeout)
}

func TestParseRepository(t *testing.T) {
	owner, repo, err := ParseRepository(" abhisek/sqlpad ")
	require.NoError(t, err)
	assert.Equal(t, "abhisek", owner)
	assert.Equal(t, "sqlpad", repo)

	for _, bad := range []string{"", "sqlpad", "/sqlpad", "abhisek/", "a/b/c"} {
		_, _, err := ParseRepository(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
