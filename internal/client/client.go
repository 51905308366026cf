// Package client is a typed HTTP client for the bookapp API, used by the
// interactive shell and by anything else that wants to drive the service
// remotely.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bookapp/internal/api"
	"bookapp/internal/store"
)

// APIError carries a decoded error response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Client calls the bookapp API. Credentials are optional; without them only
// the read operations succeed.
type Client struct {
	base     string
	http     *http.Client
	username string
	password string
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetCredentials stores Basic credentials for subsequent requests. They live
// only in memory.
func (c *Client) SetCredentials(username, password string) {
	c.username = username
	c.password = password
}

// HasCredentials reports whether the client will authenticate its requests.
func (c *Client) HasCredentials() bool { return c.username != "" }

// Username returns the stored username, if any.
func (c *Client) Username() string { return c.username }

// ListBooks returns the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]store.Book, error) {
	var books []store.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook returns the book matching title case-insensitively.
func (c *Client) GetBook(ctx context.Context, title string) (*store.Book, error) {
	var b store.Book
	if err := c.do(ctx, http.MethodGet, "/books/title/"+url.PathEscape(title), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// BooksByCountry returns every book from the given country.
func (c *Client) BooksByCountry(ctx context.Context, country string) (*api.CountryBooksResponse, error) {
	var resp api.CountryBooksResponse
	if err := c.do(ctx, http.MethodGet, "/books/country/"+url.PathEscape(country), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SuggestByPages returns the books nearest to the target page count.
func (c *Client) SuggestByPages(ctx context.Context, pages int) (*api.SuggestionsResponse, error) {
	var resp api.SuggestionsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/suggest/pages/%d", pages), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddBook creates a new catalog record.
func (c *Client) AddBook(ctx context.Context, b store.Book) (*store.Book, error) {
	var created store.Book
	if err := c.do(ctx, http.MethodPost, "/books", b, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateBook applies a partial update to the book matching title.
func (c *Client) UpdateBook(ctx context.Context, title string, patch store.BookPatch) (*store.Book, error) {
	var updated store.Book
	if err := c.do(ctx, http.MethodPut, "/books/"+url.PathEscape(title), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBook removes the book matching title.
func (c *Client) DeleteBook(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(title), nil, nil)
}

// Register creates a new account. It does not log the client in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := api.RegisterRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/register", req, nil)
}

// Login verifies credentials against the service and stores them on success.
func (c *Client) Login(ctx context.Context, username, password string) error {
	prevUser, prevPass := c.username, c.password
	c.SetCredentials(username, password)
	if err := c.do(ctx, http.MethodPost, "/login", nil, nil); err != nil {
		c.SetCredentials(prevUser, prevPass)
		return err
	}
	return nil
}

// do performs one request. Bodies are JSON both ways; any status >= 400 is
// decoded into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		var eb struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.NewDecoder(resp.Body).Decode(&eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			if eb.Code != "" {
				apiErr.Code = eb.Code
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
