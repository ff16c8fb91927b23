package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/common"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

const (
	opLogin      = "login"
	opCreateUser = "create_user"
	opGetUser    = "get_user"
	opUpdateUser = "update_user"
	opDeleteUser = "delete_user"
	opListUsers  = "list_users"
)

// HTTPClient talks to the REST backend. Calls are not retried and carry no
// timeout of their own; cancel ctx to abandon one.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func userPath(username string) string {
	return "/usuarios/" + url.PathEscape(username)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	var out models.LoginResult
	if err := c.do(ctx, opLogin, http.MethodPost, "/login/", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, user models.NewUser) (*models.CreatedUser, error) {
	var out models.CreatedUser
	if err := c.do(ctx, opCreateUser, http.MethodPost, "/usuarios/", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, opGetUser, http.MethodGet, userPath(username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, username string, update models.ProfileUpdate) (*models.MessageResult, error) {
	var out models.MessageResult
	if err := c.do(ctx, opUpdateUser, http.MethodPut, userPath(username), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, username string) (*models.MessageResult, error) {
	var out models.MessageResult
	if err := c.do(ctx, opDeleteUser, http.MethodDelete, userPath(username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var out []models.UserProfile
	if err := c.do(ctx, opListUsers, http.MethodGet, "/usuarios/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one round trip. Every failure comes back as *APIError.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	requestID := uuid.NewString()
	target := c.baseURL + path
	log := c.log.With("op", op, "request_id", requestID)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &APIError{Op: op, Side: SideClient, Err: ErrInvalidRequest, Cause: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return transportError(op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log.Debug(ctx, "api request", "method", method, "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := transportError(op, err)
		log.Error(ctx, "api request failed", "error", apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := transportError(op, fmt.Errorf("read response: %w", err))
		log.Error(ctx, "api request failed", "error", apiErr)
		return apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(op, resp.StatusCode, raw)
		log.Error(ctx, "api request failed", "status", resp.StatusCode, "error", apiErr)
		return apiErr
	}

	log.Debug(ctx, "api response", "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		apiErr := &APIError{Op: op, Side: SideServer, StatusCode: resp.StatusCode, Err: ErrServer, Cause: fmt.Errorf("decode response: %w", err)}
		log.Error(ctx, "api response undecodable", "error", apiErr)
		return apiErr
	}
	return nil
}
