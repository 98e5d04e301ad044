// Package store provides the API client for an LMS content store.
//
// The client handles bearer-token authentication and provides the two
// operations the picker depends on:
//   - Listing the files under a directory path
//   - Building the out-of-band authorization URL for the popup flow
//
// It deliberately carries no pagination, filtering, or retry policy;
// callers see exactly what the store returns.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lmspick-dev/lmspick/internal/buildinfo"
)

const (
	// DefaultBaseURL is the default content store API endpoint.
	DefaultBaseURL = "https://lms.example.edu"
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second
)

// EntryType distinguishes files from directories in a listing.
type EntryType string

// Entry types returned by the listing API.
const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "directory"
)

// Entry is a single row in a directory listing. Entries are supplied
// wholesale by the store and never mutated by the picker.
type Entry struct {
	Name string    `json:"name"`
	Type EntryType `json:"type"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// AuthError signals that the current token has not been granted access
// to the store. It is the only failure kind the picker treats as
// recoverable (by running the authorization-window flow).
type AuthError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("store authorization required (status %d)", e.StatusCode)
	}

	return fmt.Sprintf("store authorization required (status %d): %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Client is the content store API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Identity describes the token's owner, as reported by the store.
type Identity struct {
	User  string `json:"user"`
	Store string `json:"store"`
}

type listResponse struct {
	Files []Entry `json:"files"`
}

// New creates a new store client for the given token.
func New(token string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithBaseURL sets a custom base URL.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListFiles fetches the entries directly under path. The root directory
// is the empty string. A 401 or 403 response maps to *AuthError; every
// other failure is returned as an ordinary error.
func (c *Client) ListFiles(ctx context.Context, path string) ([]Entry, error) {
	endpoint, err := neturl.Parse(c.baseURL + "/api/v1/files")
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("path", path)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(resp.Body)
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("list files", resp.StatusCode, resp.Body)
	}

	var response listResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	return response.Files, nil
}

// ValidateToken checks the token against the store and returns the
// identity it belongs to. Used by 'lmspick auth login' and the doctor.
func (c *Client) ValidateToken(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/me", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid or expired token")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("validate token", resp.StatusCode, resp.Body)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to parse identity: %w", err)
	}

	return &identity, nil
}

// AuthorizeURL builds the out-of-band authorization page URL the popup
// window opens. state is an opaque nonce echoed back on the redirect;
// redirectURI is the local callback the page returns the user to.
func (c *Client) AuthorizeURL(storeName, state, redirectURI string) string {
	endpoint, err := neturl.Parse(c.baseURL + "/authorize")
	if err != nil {
		return c.baseURL + "/authorize"
	}

	query := endpoint.Query()
	query.Set("token", c.token)
	query.Set("store", storeName)
	query.Set("state", state)
	if redirectURI != "" {
		query.Set("redirect_uri", redirectURI)
	}
	endpoint.RawQuery = query.Encode()

	return endpoint.String()
}

func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lmspick/"+buildinfo.Version)
}

// unexpectedStatus creates a formatted error from an unexpected HTTP status code.
func unexpectedStatus(operation string, statusCode int, body io.Reader) error {
	respBody, readErr := io.ReadAll(body)
	if readErr != nil {
		return fmt.Errorf("%s failed with status %d (failed to read body: %v)", operation, statusCode, readErr)
	}

	return fmt.Errorf("%s failed with status %d: %s", operation, statusCode, string(respBody))
}
