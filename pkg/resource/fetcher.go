package resource

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"domxform/pkg/html"
	stdnet "domxform/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches resources over HTTP/HTTPS or from the local file
// system, resolving relative URIs against a base URL.
type DefaultFetcher struct {
	client  *stdnet.Client
	baseURL string
	logger  *zap.Logger
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch will be resolved against this base. An
// empty base resolves relative paths against the working directory.
func NewFetcher(client *stdnet.Client, baseURL string, logger *zap.Logger) *DefaultFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultFetcher{client: client, baseURL: baseURL, logger: logger}
}

// Resolve turns uri into an absolute http(s) or file URL.
func (f *DefaultFetcher) Resolve(uri string) (string, error) {
	if stdnet.IsNetworkURL(uri) || strings.HasPrefix(uri, "file://") {
		return uri, nil
	}
	if f.baseURL != "" {
		return stdnet.ResolveURL(f.baseURL, uri), nil
	}
	abs, err := filepath.Abs(uri)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", uri, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base URL.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved, err := f.Resolve(uri)
	if err != nil {
		return nil, "", err
	}
	if stdnet.IsNetworkURL(resolved) {
		return f.client.Fetch(ctx, resolved)
	}

	u, err := url.Parse(resolved)
	if err != nil || u.Scheme != "file" {
		return nil, "", fmt.Errorf("cannot fetch URI: %s", resolved)
	}
	body, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", u.Path, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(u.Path)), nil
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// FetchDocument loads and parses the page at uri, then fills every
// <link rel="stylesheet"> slot. A stylesheet that fails to load is logged
// and left empty. It returns the document and its absolute URL.
func (f *DefaultFetcher) FetchDocument(ctx context.Context, uri string) (*html.Document, string, error) {
	resolved, err := f.Resolve(uri)
	if err != nil {
		return nil, "", err
	}
	body, _, err := f.Fetch(ctx, resolved)
	if err != nil {
		return nil, "", err
	}
	doc, err := html.Parse(string(body))
	if err != nil {
		return nil, "", err
	}

	sheets := &DefaultFetcher{client: f.client, baseURL: resolved, logger: f.logger}
	for _, link := range doc.StyleLinks {
		text, err := sheets.FetchCSS(ctx, link.Href)
		if err != nil {
			f.logger.Warn("skipping stylesheet", zap.String("href", link.Href), zap.Error(err))
			continue
		}
		doc.Stylesheets[link.Index] = text
	}
	f.logger.Debug("loaded document",
		zap.String("url", resolved),
		zap.Int("stylesheets", len(doc.Stylesheets)),
		zap.Int("scripts", len(doc.Scripts)))
	return doc, resolved, nil
}
