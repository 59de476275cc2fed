package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codesnip/gatekeeper/pkg/cache"
)

// ErrUserNotFound is returned when the directory has no user for an ID.
var ErrUserNotFound = errors.New("user not found in directory")

// User is a directory user record
type User struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

// ClientInterface defines the interface for directory lookups
type ClientInterface interface {
	SearchUsers(ctx context.Context, query string, page int, perPage int) ([]*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUsersByEmail(ctx context.Context, email string) ([]*User, error)
}

// ClientConfig holds configuration for the directory client
type ClientConfig struct {
	// BaseURL is the management API root (e.g., "https://tenant.auth0.com/api/v2").
	BaseURL string

	// Tokens supplies bearer tokens for each request.
	Tokens TokenProvider

	// HTTPClient is optional; http.DefaultClient is used when nil.
	HTTPClient *http.Client

	// Cache is an optional read-through cache for GetUser lookups.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Client calls the identity provider's management API
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a new directory client
func NewClient(cfg *ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		tokens:     cfg.Tokens,
		httpClient: httpClient,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
	}
}

// SearchUsers retrieves a page of users matching the query. An empty query
// lists all users. Pages are zero-based, matching the provider's API.
func (c *Client) SearchUsers(ctx context.Context, query string, page int, perPage int) ([]*User, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("search_engine", "v3")
	if query != "" {
		params.Set("q", query)
	}

	var users []*User
	if err := c.get(ctx, "/users?"+params.Encode(), &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser retrieves a single user by ID, consulting the cache first
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(ctx, userCacheKey(userID)); found {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	var user User
	if err := c.get(ctx, "/users/"+url.PathEscape(userID), &user); err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, userCacheKey(userID), &user, c.cacheTTL)
	}

	return &user, nil
}

// GetUsersByEmail retrieves all users registered with the given email
func (c *Client) GetUsersByEmail(ctx context.Context, email string) ([]*User, error) {
	return c.SearchUsers(ctx, fmt.Sprintf("email:%q", email), 0, 50)
}

// get performs an authenticated GET against the management API and decodes
// the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get directory token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("directory request failed: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}

	return nil
}

func userCacheKey(userID string) string {
	return "directory:user:" + userID
}

// Ensure Client implements the interface.
var _ ClientInterface = (*Client)(nil)
