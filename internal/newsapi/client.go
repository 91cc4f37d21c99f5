// Package newsapi is the HTTP client for the news recommendation service.
package newsapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsfeed/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the credentials used by every authenticated call
type LoginResponse struct {
	Token             string    `json:"token" validate:"required"`
	UserID            domain.ID `json:"userId" validate:"required"`
	IsInitPreferences bool      `json:"isInitPreferences"`
}

type interactionRequest struct {
	UserID          domain.ID              `json:"userId"`
	ArticleID       domain.ID              `json:"articleId"`
	InteractionType domain.InteractionType `json:"interactionType"`
}

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the recommendation service
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewClient creates a client for baseURL. A zero timeout leaves the
// transport default in place.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Register creates a new anonymous account
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

// Login exchanges username and password for a session token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("invalid login response: %w", err)
	}
	return &resp, nil
}

// InitPreferences stores the user's first topic selection
func (c *Client) InitPreferences(ctx context.Context, token string, userID domain.ID, topics []string) error {
	path := "/users/" + url.PathEscape(userID.String()) + "/preferences/init"
	if topics == nil {
		topics = []string{}
	}
	return c.do(ctx, http.MethodPut, path, token, topics, nil)
}

// Recommendations fetches one page of articles for userID.
// articleLimit <= 0 omits the limit parameter.
func (c *Client) Recommendations(ctx context.Context, token string, userID domain.ID, articleLimit int) ([]domain.Article, error) {
	path := "/recommendations/" + url.PathEscape(userID.String())
	if articleLimit > 0 {
		path += "?articleLimit=" + strconv.Itoa(articleLimit)
	}

	var articles []domain.Article
	if err := c.do(ctx, http.MethodGet, path, token, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// ReportInteraction posts a VIEW, SKIP or LIKE signal, or an unlike when
// in.Unlike is set.
func (c *Client) ReportInteraction(ctx context.Context, token string, in domain.Interaction) error {
	path := "/interactions"
	body := interactionRequest{
		UserID:          in.UserID,
		ArticleID:       in.ArticleID,
		InteractionType: in.Type,
	}
	if in.Unlike {
		path = "/interactions/unlike"
		body.InteractionType = domain.InteractionLike
	}
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any, v any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
