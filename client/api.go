// Package client talks to the PixelNote API and keeps the local, optimistic
// view of a user's items.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pixelnote/apperr"
	"pixelnote/constants"
	"pixelnote/dto"
	"pixelnote/models"
)

// API is the subset of the HTTP API the controller depends on.
type API interface {
	Register(ctx context.Context, email, password string) (uint, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Verify(ctx context.Context, token string) (*models.UserSummary, error)
	Logout(ctx context.Context, token string) error

	List(ctx context.Context, token string, variant models.Variant) ([]models.Item, error)
	Get(ctx context.Context, token string, variant models.Variant, id uint) (*models.Item, error)
	Create(ctx context.Context, token string, variant models.Variant, fields models.ItemFields) (*models.Item, error)
	Update(ctx context.Context, token string, variant models.Variant, id uint, fields models.ItemFields) (*models.Item, error)
	Delete(ctx context.Context, token string, variant models.Variant, id uint) error
}

// APIError is a non-2xx answer. It unwraps to the matching apperr sentinel
// when the status and message identify one.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func classify(status int, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return apperr.ErrUnauthenticated
	case status == http.StatusNotFound:
		return apperr.ErrNotFound
	case status >= http.StatusInternalServerError:
		return apperr.ErrStoreUnavailable
	}
	switch message {
	case constants.ErrInvalidToken:
		return apperr.ErrInvalidToken
	case constants.ErrEmailExists:
		return apperr.ErrDuplicateIdentity
	case constants.ErrInvalidLogin:
		return apperr.ErrInvalidCredential
	case constants.ErrNothingToUpdate:
		return apperr.ErrNoOpUpdate
	}
	return nil
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://localhost:4000". A nil httpClient gets a default with a timeout.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{
			Status:  resp.StatusCode,
			Message: payload.Error,
			kind:    classify(resp.StatusCode, payload.Error),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func itemPath(variant models.Variant, id uint) string {
	path := "/api/" + variant.Collection()
	if id != 0 {
		path += "/" + strconv.FormatUint(uint64(id), 10)
	}
	return path
}

// tag stamps the variant on items when the server did not, so an item is
// never typed by its fields.
func tag(variant models.Variant, items ...*models.Item) {
	for _, item := range items {
		if item.Type == "" {
			item.Type = variant
		}
	}
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (uint, error) {
	var out dto.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/register", "", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", "", dto.LoginInput{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response carries no token")
	}
	return &out, nil
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (*models.UserSummary, error) {
	var out dto.VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/logout", token, nil, nil)
}

func (c *HTTPClient) List(ctx context.Context, token string, variant models.Variant) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, itemPath(variant, 0), token, nil, &items); err != nil {
		return nil, err
	}
	for i := range items {
		tag(variant, &items[i])
	}
	return items, nil
}

func (c *HTTPClient) Get(ctx context.Context, token string, variant models.Variant, id uint) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, itemPath(variant, id), token, nil, &item); err != nil {
		return nil, err
	}
	tag(variant, &item)
	return &item, nil
}

func (c *HTTPClient) Create(ctx context.Context, token string, variant models.Variant, fields models.ItemFields) (*models.Item, error) {
	in := dto.CreateItemInput{Title: fields.Title, Content: fields.Content}
	if variant.Allows(models.FieldDate) {
		in.Date = fields.Date
	}
	if variant.Allows(models.FieldImage) {
		in.Image = fields.Image
	}

	var item models.Item
	if err := c.do(ctx, http.MethodPost, itemPath(variant, 0), token, in, &item); err != nil {
		return nil, err
	}
	tag(variant, &item)
	return &item, nil
}

func (c *HTTPClient) Update(ctx context.Context, token string, variant models.Variant, id uint, fields models.ItemFields) (*models.Item, error) {
	in := dto.UpdateItemInput{Title: fields.Title, Content: fields.Content}
	if variant.Allows(models.FieldDate) {
		in.Date = fields.Date
	}
	if variant.Allows(models.FieldImage) {
		in.Image = fields.Image
	}

	var item models.Item
	if err := c.do(ctx, http.MethodPut, itemPath(variant, id), token, in, &item); err != nil {
		return nil, err
	}
	tag(variant, &item)
	return &item, nil
}

func (c *HTTPClient) Delete(ctx context.Context, token string, variant models.Variant, id uint) error {
	var out dto.DeleteResponse
	return c.do(ctx, http.MethodDelete, itemPath(variant, id), token, nil, &out)
}
