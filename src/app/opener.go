package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Opener retrieves the raw bytes of a descriptor or atlas.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTPOpener issues anonymous GET requests: the client carries no cookie jar
// and no credentials are attached, so cross-origin atlases stay readable.
type HTTPOpener struct {
	Client *http.Client
}

func NewHTTPOpener(timeout time.Duration) HTTPOpener {
	return HTTPOpener{Client: &http.Client{Timeout: timeout}}
}

func (o HTTPOpener) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %q: %w", url, err)
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// FileOpener reads from the local filesystem. "file://" and "~/" prefixes are accepted.
type FileOpener struct{}

func (FileOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := ExpandPath(strings.TrimPrefix(location, "file://"))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}

// SchemeOpener sends http(s) locations to HTTP and everything else to File.
type SchemeOpener struct {
	HTTP Opener
	File Opener
}

func DefaultOpener(timeout time.Duration) SchemeOpener {
	return SchemeOpener{HTTP: NewHTTPOpener(timeout), File: FileOpener{}}
}

func (o SchemeOpener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if isRemote(location) {
		return o.HTTP.Open(ctx, location)
	}
	return o.File.Open(ctx, location)
}
