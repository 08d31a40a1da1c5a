// Package api is the HTTP client for the remote task and auth endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pablasso/todo/internal/session"
	"github.com/pablasso/todo/internal/task"
)

const (
	DefaultTimeout = 15 * time.Second
	MaxRetries     = 3

	// CredentialCookie carries the session credential, as the web client does.
	CredentialCookie = "__scss"
)

// Client talks to the task API. Mutating calls are attempted once; reads are
// retried on network errors and 5xx responses.
type Client struct {
	BaseURL    string
	Credential string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// RetryBackoff builds the backoff used for idempotent requests.
	RetryBackoff func() backoff.BackOff
}

// NewClient creates a client for baseURL authenticated with credential.
func NewClient(baseURL, credential string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Credential: credential,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		RetryBackoff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 250 * time.Millisecond
			bo.MaxElapsedTime = 10 * time.Second
			return bo
		},
	}
}

// WithCredential returns a copy of the client using credential.
func (c *Client) WithCredential(credential string) *Client {
	cp := *c
	cp.Credential = credential
	return &cp
}

// request sends one HTTP request and returns the response body and headers.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, http.Header, int, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Credential != "" {
		req.Header.Set("Authorization", "Bearer "+c.Credential)
		req.AddCookie(&http.Cookie{Name: CredentialCookie, Value: c.Credential})
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Debug("api request failed", "method", method, "path", path, "err", err)
		return nil, nil, 0, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, 0, &NetworkError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.Logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, resp.StatusCode, &ServerError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, resp.Header, resp.StatusCode, nil
}

// requestWithRetry retries idempotent requests with exponential backoff.
func (c *Client) requestWithRetry(ctx context.Context, method, path string) ([]byte, error) {
	var body []byte
	bo := backoff.WithContext(backoff.WithMaxRetries(c.RetryBackoff(), MaxRetries), ctx)

	err := backoff.Retry(func() error {
		var err error
		body, _, _, err = c.request(ctx, method, path, nil)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ListTasks fetches every task of the signed-in user.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	resp, err := c.requestWithRetry(ctx, http.MethodGet, "/tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, draft task.Draft) (task.Task, error) {
	resp, _, _, err := c.request(ctx, http.MethodPost, "/tasks", draft)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	var created task.Task
	if err := json.Unmarshal(resp, &created); err != nil {
		return task.Task{}, fmt.Errorf("failed to parse created task: %w", err)
	}
	return created, nil
}

// UpdateTask applies patch to the task and returns the server's copy.
func (c *Client) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	path := "/tasks/" + url.PathEscape(id)

	resp, _, _, err := c.request(ctx, http.MethodPatch, path, patch)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to update task %s: %w", id, err)
	}

	var updated task.Task
	if err := json.Unmarshal(resp, &updated); err != nil {
		return task.Task{}, fmt.Errorf("failed to parse updated task: %w", err)
	}
	return updated, nil
}

// DeleteTask deletes the task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	path := "/tasks/" + url.PathEscape(id)

	if _, _, _, err := c.request(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges username and password for a credential. The credential is
// read from the JSON body or, failing that, from the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	resp, header, _, err := c.request(ctx, http.MethodPost, "/auth", loginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to log in: %w", err)
	}

	var lr loginResponse
	if len(bytes.TrimSpace(resp)) > 0 {
		if err := json.Unmarshal(resp, &lr); err != nil {
			return "", fmt.Errorf("failed to parse login response: %w", err)
		}
	}
	if lr.Token != "" {
		return lr.Token, nil
	}

	cookies := (&http.Response{Header: header}).Cookies()
	for _, ck := range cookies {
		if ck.Name == CredentialCookie && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", fmt.Errorf("failed to log in: response carried no credential")
}

// FetchSession returns the user the credential belongs to.
func (c *Client) FetchSession(ctx context.Context) (*session.Session, error) {
	resp, err := c.requestWithRetry(ctx, http.MethodGet, "/auth")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(resp, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &s, nil
}

// Registration is the account creation payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that every field is filled in.
func (r Registration) Validate() error {
	fields := []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"username", r.Username},
		{"password", r.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &task.ValidationError{Field: f.name, Message: "is required"}
		}
	}
	if !strings.Contains(r.Email, "@") {
		return &task.ValidationError{Field: "email", Message: "must be an email address"}
	}
	return nil
}

// Register creates an account. Only 201 Created counts as success.
func (c *Client) Register(ctx context.Context, r Registration) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, _, status, err := c.request(ctx, http.MethodPost, "/users", r)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	if status != http.StatusCreated {
		return fmt.Errorf("failed to register: %w", &ServerError{Method: http.MethodPost, Path: "/users", StatusCode: status})
	}
	return nil
}
