// Package github reads course content from the educational content
// repository on GitHub: file bodies from raw.githubusercontent.com,
// directory listings and commit history from the REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/cache"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// Default repository coordinates.
const (
	DefaultOwner       = "PlanB-Network"
	DefaultRepo        = "bitcoin-educational-content"
	DefaultBranch      = "dev"
	DefaultRawBase     = "https://raw.githubusercontent.com"
	DefaultAPIBase     = "https://api.github.com"
	DefaultLocalesBase = "https://raw.githubusercontent.com/PlanB-Network/bitcoin-learning-management-system/main/apps/academy/public/locales"
)

const (
	userAgent = "content-to-pdf"

	// fetchConcurrency bounds parallel requests per operation.
	fetchConcurrency = 10

	// maxBodySize bounds any single response body.
	maxBodySize = 16 << 20

	defaultHTTPTimeout = 30 * time.Second
)

// ErrUnexpectedStatus indicates a GitHub response other than 200 or 404.
var ErrUnexpectedStatus = errors.New("unexpected GitHub response")

// Client implements source.Source and source.Lister over GitHub.
type Client struct {
	http        *http.Client
	owner       string
	repo        string
	branch      string
	rawBase     string
	apiBase     string
	localesBase string
	token       string
	cache       cache.Cache
	guides      fs.FS
	log         *logger.Logger
}

var (
	_ source.Source = (*Client)(nil)
	_ source.Lister = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken authenticates REST API calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithRepository overrides the content repository coordinates.
func WithRepository(owner, repo, branch string) Option {
	return func(c *Client) {
		if owner != "" {
			c.owner = owner
		}
		if repo != "" {
			c.repo = repo
		}
		if branch != "" {
			c.branch = branch
		}
	}
}

// WithBaseURLs overrides the raw, API and locale endpoints. Empty values
// keep the defaults.
func WithBaseURLs(raw, api, locales string) Option {
	return func(c *Client) {
		if raw != "" {
			c.rawBase = strings.TrimSuffix(raw, "/")
		}
		if api != "" {
			c.apiBase = strings.TrimSuffix(api, "/")
		}
		if locales != "" {
			c.localesBase = strings.TrimSuffix(locales, "/")
		}
	}
}

// WithCache stores listings and professor names in ch.
func WithCache(ch cache.Cache) Option {
	return func(c *Client) {
		if ch != nil {
			c.cache = ch
		}
	}
}

// WithGuides serves teacher guides from fsys, one "<code>-<lang>.md" file
// per guide. Without it TeacherGuide always reports source.ErrNotFound.
func WithGuides(fsys fs.FS) Option {
	return func(c *Client) { c.guides = fsys }
}

// WithLogger sets the logger for skipped files and failed lookups.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: defaultHTTPTimeout},
		owner:       DefaultOwner,
		repo:        DefaultRepo,
		branch:      DefaultBranch,
		rawBase:     DefaultRawBase,
		apiBase:     DefaultAPIBase,
		localesBase: DefaultLocalesBase,
		cache:       cache.Nop{},
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawURL is the download URL of a repository file.
func (c *Client) rawURL(p string) string {
	return c.rawBase + "/" + c.owner + "/" + c.repo + "/" + c.branch + "/" + p
}

func (c *Client) contentsURL(p string) string {
	return c.apiBase + "/repos/" + c.owner + "/" + c.repo + "/contents/" + p + "?ref=" + url.QueryEscape(c.branch)
}

// get fetches u. A 404 maps to source.ErrNotFound. api adds the REST
// headers and the token.
func (c *Client) get(ctx context.Context, u string, api bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if api {
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, u, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	return body, nil
}

// getFile fetches a repository file body.
func (c *Client) getFile(ctx context.Context, p string) ([]byte, error) {
	return c.get(ctx, c.rawURL(p), false)
}

type contentEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// listDir returns the entries of a repository directory.
func (c *Client) listDir(ctx context.Context, p string) ([]contentEntry, error) {
	body, err := c.get(ctx, c.contentsURL(p), true)
	if err != nil {
		return nil, err
	}
	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding listing of %s: %w", p, err)
	}
	return entries, nil
}

// subdirs returns the directory names under p.
func (c *Client) subdirs(ctx context.Context, p string) ([]string, error) {
	entries, err := c.listDir(ctx, p)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.Type == "dir" {
			dirs = append(dirs, e.Name)
		}
	}
	return dirs, nil
}
