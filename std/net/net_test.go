package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page.html":
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>hi</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, "test-agent")
	body, ct, err := c.Fetch(context.Background(), srv.URL+"/page.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))
	assert.Equal(t, "text/html", ct)

	_, _, err = c.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestClient_FetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewClient(time.Second, "").Fetch(ctx, "http://127.0.0.1:1/")
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://example.com/css/site.css", ResolveURL("https://example.com/pages/index.html", "../css/site.css"))
	assert.Equal(t, "https://cdn.example.com/a.css", ResolveURL("https://example.com/", "https://cdn.example.com/a.css"))
}

func TestIsNetworkURL(t *testing.T) {
	assert.True(t, IsNetworkURL("HTTPS://example.com"))
	assert.False(t, IsNetworkURL("file:///tmp/x.html"))
	assert.False(t, IsNetworkURL("page.html"))
}
