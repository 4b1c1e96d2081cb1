// Package content retrieves the JSON documents pages are populated from,
// either from a local site directory or from an HTTP base URL.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher resolves resource paths against a base location and decodes JSON.
type Fetcher struct {
	remote     *url.URL
	root       string
	prefix     string
	httpClient *http.Client
}

// New creates a Fetcher. base is an http(s) URL or a local directory. A nil
// client gets a client with a 30 second timeout.
func New(base string, client *http.Client) (*Fetcher, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	f := &Fetcher{httpClient: client}

	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing data base %q: %w", base, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		f.remote = u
		return f, nil
	}

	root, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving data base %q: %w", base, err)
	}
	f.root = root
	return f, nil
}

// Within returns a copy of f that resolves paths under prefix. A prefix
// starting with "/" is relative to the base itself.
func (f *Fetcher) Within(prefix string) *Fetcher {
	c := *f
	if path.IsAbs(prefix) {
		c.prefix = prefix
	} else {
		c.prefix = path.Join(f.prefix, prefix)
	}
	return &c
}

// IsRemote reports whether location is an http(s) URL or a protocol-relative
// "//host/path" reference.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "//")
}

// Rebase returns a Fetcher that reads from the absolute URL base using f's
// HTTP client. A protocol-relative base takes f's scheme, or https when f
// reads a local directory.
func (f *Fetcher) Rebase(base string) (*Fetcher, error) {
	if strings.HasPrefix(base, "//") {
		scheme := "https"
		if f.remote != nil {
			scheme = f.remote.Scheme
		}
		base = scheme + ":" + base
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("rebasing onto %q: not an http(s) URL", base)
	}
	return New(base, f.httpClient)
}

// Location returns the URL or file path rel resolves to.
func (f *Fetcher) Location(rel string) (string, error) {
	joined := path.Join(f.prefix, rel)
	if f.remote != nil {
		ref, err := url.Parse(joined)
		if err != nil {
			return "", err
		}
		return f.remote.ResolveReference(ref).String(), nil
	}

	joined = strings.TrimPrefix(joined, "/")
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", fmt.Errorf("path %q escapes the data root", rel)
	}
	return filepath.Join(f.root, filepath.FromSlash(joined)), nil
}

// FetchJSON loads rel and decodes it into v. Failures are *Error values of
// kind KindFetch or KindDecode.
func (f *Fetcher) FetchJSON(ctx context.Context, rel string, v any) error {
	loc, err := f.Location(rel)
	if err != nil {
		return &Error{Kind: KindFetch, Resource: rel, Err: err}
	}

	if f.remote != nil {
		return f.fetchRemote(ctx, rel, loc, v)
	}

	data, err := os.ReadFile(loc)
	if err != nil {
		e := &Error{Kind: KindFetch, Resource: rel, Err: err}
		if errors.Is(err, os.ErrNotExist) {
			e.Status = http.StatusNotFound
		}
		return e
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Kind: KindDecode, Resource: rel, Err: err}
	}
	return nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, rel, loc string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return &Error{Kind: KindFetch, Resource: rel, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindFetch, Resource: rel, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Error{Kind: KindFetch, Resource: rel, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Kind: KindDecode, Resource: rel, Err: err}
	}
	return nil
}
