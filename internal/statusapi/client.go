// Package statusapi fetches job status reports from the transcription server.
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
)

const (
	// DefaultStatusPath is the server route answering status queries.
	// "{id}" is replaced with the job ID.
	DefaultStatusPath = "/processing_status/{id}/check"

	// DefaultTimeout is the HTTP client timeout.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 1 << 20
)

// Config configures a Client.
type Config struct {
	// ServerURL is the base URL of the server, e.g. "http://localhost:5000".
	ServerURL string

	// StatusPath is the route template. Defaults to DefaultStatusPath.
	StatusPath string

	// APIToken is sent as a bearer token when set.
	APIToken string

	// SessionCookie is sent verbatim in the Cookie header when set.
	SessionCookie string

	// Timeout is the HTTP client timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the default client. Redirect handling is left to
	// the caller in that case.
	HTTPClient *http.Client
}

// Client queries the status endpoint.
type Client struct {
	baseURL    *url.URL
	statusPath string
	apiToken   string
	cookie     string
	client     *http.Client
}

var _ monitor.Fetcher = (*Client)(nil)

// statusResponse is the wire shape of a status query.
type statusResponse struct {
	Progress    *float64 `json:"progress"`
	Status      string   `json:"status"`
	Message     *string  `json:"message"`
	RedirectURL string   `json:"redirect_url"`
}

// NewClient creates a status client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, ErrNoServer
	}

	base, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", cfg.ServerURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", cfg.ServerURL)
	}

	path := cfg.StatusPath
	if path == "" {
		path = DefaultStatusPath
	}
	if !strings.Contains(path, "{id}") {
		return nil, fmt.Errorf("status path %q must contain {id}", path)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			// A redirect here is the login page, not a status report.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	return &Client{
		baseURL:    base,
		statusPath: path,
		apiToken:   cfg.APIToken,
		cookie:     cfg.SessionCookie,
		client:     httpClient,
	}, nil
}

// StatusURL returns the status URL for a job.
func (c *Client) StatusURL(id monitor.JobID) string {
	path := strings.ReplaceAll(c.statusPath, "{id}", url.PathEscape(string(id)))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL.String() + path
}

// FetchStatus retrieves and decodes the status report of a job.
func (c *Client) FetchStatus(ctx context.Context, id monitor.JobID) (*monitor.StatusReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.StatusURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthenticated, resp.StatusCode)
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, fmt.Errorf("%w: redirected to %s", ErrUnauthenticated, resp.Header.Get("Location"))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (*monitor.StatusReport, error) {
	var raw statusResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if raw.Status == "" {
		return nil, fmt.Errorf("%w: missing status", ErrMalformedReport)
	}

	report := &monitor.StatusReport{
		Progress: raw.Progress,
		Status:   monitor.Status(raw.Status),
	}
	if raw.Message != nil {
		report.Message = *raw.Message
	}
	if raw.RedirectURL != "" {
		report.RedirectURL = c.resolve(raw.RedirectURL)
	}
	return report, nil
}

// resolve turns a server-relative redirect into an absolute URL.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
