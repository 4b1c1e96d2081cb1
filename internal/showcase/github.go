package showcase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/model"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// perPage is the largest page size the listing endpoint accepts.
const perPage = 100

// Source lists repositories for the showcase.
type Source interface {
	ListUserRepos(ctx context.Context, username string) ([]model.Repository, error)
	GetRepo(ctx context.Context, fullName string) (model.Repository, error)
}

// ClientConfig holds configuration for a GitHub connection.
type ClientConfig struct {
	APIURL string
	// Token is sent as a bearer token when set. Unauthenticated requests
	// work but are rate limited.
	Token string
	// MaxPages caps how many listing pages are followed. Values below one
	// mean a single page.
	MaxPages   int
	HTTPClient *http.Client
}

// Client provides access to the GitHub REST API.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new GitHub API client.
func NewClient(config ClientConfig) *Client {
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.MaxPages < 1 {
		config.MaxPages = 1
	}
	hc := config.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{config: config, httpClient: hc}
}

// ListUserRepos returns the user's public repositories, most recently
// updated first, following pagination up to the configured page cap.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]model.Repository, error) {
	var all []model.Repository
	for page := 1; page <= c.config.MaxPages; page++ {
		endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=updated",
			strings.TrimRight(c.config.APIURL, "/"), url.PathEscape(username), perPage)
		if page > 1 {
			endpoint += fmt.Sprintf("&page=%d", page)
		}

		var repos []model.Repository
		if err := c.get(ctx, endpoint, &repos); err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if len(repos) < perPage {
			break
		}
	}
	return all, nil
}

// GetRepo fetches a single repository by "owner/name".
func (c *Client) GetRepo(ctx context.Context, fullName string) (model.Repository, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return model.Repository{}, fmt.Errorf("invalid repository name %q: want owner/name", fullName)
	}
	endpoint := fmt.Sprintf("%s/repos/%s/%s",
		strings.TrimRight(c.config.APIURL, "/"), url.PathEscape(owner), url.PathEscape(name))

	var repo model.Repository
	if err := c.get(ctx, endpoint, &repo); err != nil {
		return model.Repository{}, err
	}
	return repo, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "folio")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &content.Error{Kind: content.KindFetch, Resource: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &content.Error{
			Kind:     content.KindFetch,
			Resource: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("github API error: %s", strings.TrimSpace(string(body))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &content.Error{Kind: content.KindDecode, Resource: endpoint, Err: err}
	}
	return nil
}
