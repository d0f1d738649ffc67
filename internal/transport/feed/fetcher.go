// Package feed loads metadata feeds from local files or HTTP and probes portal links.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher reads feed documents.
type Fetcher struct {
	http *resty.Client
}

// New creates a fetcher.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{http: resty.New().SetTimeout(timeout)}
}

// Fetch returns the document at location: an http(s) URL or a file path.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		data, err := os.ReadFile(filepath.Clean(location))
		if err != nil {
			return nil, fmt.Errorf("read feed %s: %w", location, err)
		}
		return data, nil
	}

	resp, err := f.http.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", location, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch feed %s: status %d", location, resp.StatusCode())
	}
	return resp.Body(), nil
}

// Exists reports whether link answers with 200 OK. Non-ASCII characters are
// percent-encoded before the request.
func (f *Fetcher) Exists(ctx context.Context, link string) (bool, error) {
	u, err := url.Parse(link)
	if err != nil {
		return false, fmt.Errorf("parse link %s: %w", link, err)
	}
	resp, err := f.http.R().SetContext(ctx).Get(u.String())
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", link, err)
	}
	return resp.StatusCode() == http.StatusOK, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
