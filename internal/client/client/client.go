package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/client/models"
	"github.com/dmitrijs2005/bookmarks/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is the API contract the CLI depends on.
type Client interface {
	Signup(ctx context.Context, email string, password []byte) (string, error)
	Signin(ctx context.Context, email string, password []byte) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.User, error)
	EditProfile(ctx context.Context, token string, patch ProfilePatch) (*models.User, error)
	CreateBookmark(ctx context.Context, token string, in NewBookmark) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, token string) ([]*models.Bookmark, error)
	GetBookmark(ctx context.Context, token, id string) (*models.Bookmark, error)
	EditBookmark(ctx context.Context, token, id string, patch BookmarkPatch) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, token, id string) error
	Export(ctx context.Context, token string) (*models.Export, error)
	Ping(ctx context.Context) error
}

type NewBookmark struct {
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Description *string `json:"description,omitempty"`
}

type BookmarkPatch struct {
	Title       *string `json:"title,omitempty"`
	Link        *string `json:"link,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ProfilePatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) Signup(ctx context.Context, email string, password []byte) (string, error) {
	return c.exchange(ctx, "/auth/signup", email, password)
}

func (c *HTTPClient) Signin(ctx context.Context, email string, password []byte) (string, error) {
	return c.exchange(ctx, "/auth/signin", email, password)
}

func (c *HTTPClient) exchange(ctx context.Context, path, email string, password []byte) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, path, "", credentials{Email: email, Password: string(password)}, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) EditProfile(ctx context.Context, token string, patch ProfilePatch) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPatch, "/users", token, patch, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CreateBookmark(ctx context.Context, token string, in NewBookmark) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := c.do(ctx, http.MethodPost, "/bookmarks", token, in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) ListBookmarks(ctx context.Context, token string) ([]*models.Bookmark, error) {
	list := []*models.Bookmark{}
	if err := c.do(ctx, http.MethodGet, "/bookmarks", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetBookmark(ctx context.Context, token, id string) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := c.do(ctx, http.MethodGet, "/bookmarks/"+id, token, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) EditBookmark(ctx context.Context, token, id string, patch BookmarkPatch) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := c.do(ctx, http.MethodPatch, "/bookmarks/"+id, token, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) DeleteBookmark(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookmarks/"+id, token, nil, nil)
}

func (c *HTTPClient) Export(ctx context.Context, token string) (*models.Export, error) {
	var e models.Export
	if err := c.do(ctx, http.MethodPost, "/bookmarks/export", token, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Ping checks that the server is live.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", "", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an error response onto the shared sentinels.
func statusError(resp *http.Response) error {
	var e errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case e.Code == "credentials_taken":
		return common.ErrorEmailTaken
	case e.Code == "credentials_incorrect":
		return common.ErrorInvalidCredentials
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, e.Message)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return ErrUnavailable
	}
	if e.Message != "" {
		return errors.New(e.Message)
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
