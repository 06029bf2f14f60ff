package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// User is the profile record returned by the identity endpoint.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// Valid reports whether the record carries the required name fields.
func (u *User) Valid() bool {
	return u != nil && u.FirstName != "" && u.LastName != ""
}

// Profile carries the fields submitted on registration.
type Profile struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// APIError is a server-reported failure. Message is empty when the response
// body did not carry the expected {"message": ...} payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// API is the remote surface the session controller depends on.
type API interface {
	Login(ctx context.Context, identifier, secret string) (string, error)
	CurrentUser(ctx context.Context, token string) (*User, error)
	Register(ctx context.Context, profile Profile) error
}

// HTTPAPI talks to the backend over plain HTTP/JSON.
type HTTPAPI struct {
	baseURL string
	http    *http.Client
}

// NewHTTPAPI constructs an HTTPAPI from client configuration.
func NewHTTPAPI(cfg *Config) *HTTPAPI {
	return &HTTPAPI{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Login exchanges credentials for a bearer token.
func (a *HTTPAPI) Login(ctx context.Context, identifier, secret string) (string, error) {
	body, err := json.Marshal(map[string]string{"identifier": identifier, "secret": secret})
	if err != nil {
		return "", err
	}
	res, err := a.post(ctx, "/login", body)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	if !is2xx(res.StatusCode) {
		return "", serverError(res)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || payload.Token == "" {
		return "", &APIError{Status: res.StatusCode}
	}
	return payload.Token, nil
}

// CurrentUser resolves the user behind a bearer token.
func (a *HTTPAPI) CurrentUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/user/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if !is2xx(res.StatusCode) {
		return nil, serverError(res)
	}
	var payload struct {
		User *User `json:"user"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || payload.User == nil {
		return nil, &APIError{Status: res.StatusCode}
	}
	return payload.User, nil
}

// Register submits a new account profile.
func (a *HTTPAPI) Register(ctx context.Context, profile Profile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	res, err := a.post(ctx, "/register", body)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if !is2xx(res.StatusCode) {
		return serverError(res)
	}
	return nil
}

// Logout revokes the token's server-side session. The client session is
// cleared locally either way; this is best-effort hygiene.
func (a *HTTPAPI) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if !is2xx(res.StatusCode) {
		return serverError(res)
	}
	return nil
}

func (a *HTTPAPI) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.http.Do(req)
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// serverError maps a non-2xx response to an APIError, tolerating bodies that
// are not the expected JSON shape.
func serverError(res *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return &APIError{Status: res.StatusCode}
	}
	return &APIError{Status: res.StatusCode, Message: payload.Message}
}

var _ API = (*HTTPAPI)(nil)
