// Package client is the Go SDK for the AcademiHub API.
//
// It owns the full session lifecycle: a persisted session store, a
// bearer-injecting HTTP transport with forced logout on expired
// credentials, and a small event bus so long-lived callers (TUIs,
// daemons, tests) can react to session changes without polling.
//
// DESIGN NOTES:
//   - Every operation returns *Error with an explicit Kind; callers branch
//     on the kind (or errors.Is against the sentinels), never on message
//     text.
//   - The session lives in memory and is mirrored to one JSON file;
//     corrupt or missing state means "logged out", never a failure.
//   - A 401 on a request that carried a token clears the session and
//     publishes EventSessionExpired. A 401 without a token changes
//     nothing — see the transport type for why the asymmetry matters.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client talks to one AcademiHub server. Safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	store   *SessionStore
	bus     *Bus

	mu              sync.Mutex
	lastEnrollments []Enrollment // most recent GET /enrollments result
}

// New creates a Client for the server at baseURL, persisting the session
// to sessionFile. An empty sessionFile keeps the session in memory only.
func New(baseURL, sessionFile string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base URL %q needs a scheme and host", baseURL)
	}

	bus := NewBus()
	store := NewSessionStore(sessionFile, bus)

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &transport{base: http.DefaultTransport, store: store, bus: bus},
		},
		store: store,
		bus:   bus,
	}, nil
}

// Session exposes the session store for direct reads and manual clears.
func (c *Client) Session() *SessionStore { return c.store }

// Subscribe registers for session lifecycle events. See Bus.Subscribe.
func (c *Client) Subscribe() (<-chan Event, func()) { return c.bus.Subscribe() }

// errorResponse mirrors the server's uniform error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// do issues one JSON request. body is marshalled when non-nil; a non-nil
// out receives the decoded 2xx response. Errors are always *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building request: %v", err)}
	}
	return req, nil
}

// send executes the request and decodes either the success body into out
// or the error body into an *Error.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error(), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
		}
		// Surface the server's message verbatim when the body parses.
		var body errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
			apiErr.Message = body.Message
			apiErr.Field = body.Field
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}
	return nil
}

// --- Auth ---

// AuthResult is the login/signup response: the issued token and the
// account it belongs to.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login authenticates with email and password. On success the session is
// saved (and persisted) before returning.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	c.store.Save(&res.User, res.Token)
	return &res, nil
}

// SignupInput is the payload for Signup. Role must be student or
// lecturer; admin accounts come from an existing admin.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Signup creates an account and logs it in.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, in, &res); err != nil {
		return nil, err
	}
	c.store.Save(&res.User, res.Token)
	return &res, nil
}

// GoogleSignIn exchanges a Google authorization code for a session.
func (c *Client) GoogleSignIn(ctx context.Context, code string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/google/signin", nil, map[string]string{"code": code}, &res)
	if err != nil {
		return nil, err
	}
	c.store.Save(&res.User, res.Token)
	return &res, nil
}

// Logout tells the server to revoke the current token (best effort; the
// server may not have a revocation list) and clears the local session
// either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.store.Clear()
	return err
}

// --- Profile ---

// Profile fetches the caller's own profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the caller's name and email. The persisted
// session user is refreshed from the server's response, so the session
// and the returned value can't drift apart.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPut, "/api/profile", nil, map[string]string{
		"name":  name,
		"email": email,
	}, &u)
	if err != nil {
		return nil, err
	}
	c.store.SetUser(&u)
	return &u, nil
}

// maxAvatarSize matches the server's limit for avatar images.
const maxAvatarSize = 5 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var documentExtensions = map[string]bool{
	".pdf": true, ".docx": true,
}

func extension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ""
}

// UploadAvatar uploads a new avatar image. The type and size checks run
// locally first, so an oversized or non-image file never leaves the
// machine; the server applies the same rules again.
func (c *Client) UploadAvatar(ctx context.Context, filename string, size int64, r io.Reader) (*User, error) {
	if !imageExtensions[extension(filename)] {
		return nil, &Error{Kind: KindValidation, Field: "avatar", Message: "avatar must be an image (png, jpg, jpeg, gif or webp)"}
	}
	if size > maxAvatarSize {
		return nil, &Error{Kind: KindValidation, Field: "avatar", Message: "avatar must be 5MB or smaller"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building upload: %v", err)}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("reading avatar: %v", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Message: fmt.Sprintf("building upload: %v", err)}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/profile/avatar", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var u User
	if err := c.send(req, &u); err != nil {
		return nil, err
	}
	c.store.SetUser(&u)
	return &u, nil
}

// DeleteAvatar removes the caller's avatar.
func (c *Client) DeleteAvatar(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodDelete, "/api/profile/avatar", nil, nil, &u); err != nil {
		return nil, err
	}
	c.store.SetUser(&u)
	return &u, nil
}
