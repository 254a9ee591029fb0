package internal

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
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single backend round trip
const DefaultTimeout = 30 * time.Second

// APIClient handles HTTP communication with the messenger backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client for the backend at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login authenticates with email and password
func (c *APIClient) Login(ctx context.Context, email, password string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, "login", http.MethodPost, "/login", nil, loginRequest{Email: email, Password: password}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Register creates an account and authenticates as it
func (c *APIClient) Register(ctx context.Context, username, email, password string) (*Profile, error) {
	var p Profile
	body := registerRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, "register", http.MethodPost, "/register", nil, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Profile fetches the current user's profile
func (c *APIClient) Profile(ctx context.Context, cred Credential) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, "profile", http.MethodGet, "/profile", &cred, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile renames the current user
func (c *APIClient) UpdateProfile(ctx context.Context, cred Credential, newUsername string) error {
	return c.do(ctx, "update profile", http.MethodPost, "/update_profile", &cred, updateProfileRequest{NewUsername: newUsername}, nil)
}

// Users lists every other user
func (c *APIClient) Users(ctx context.Context, cred Credential) ([]User, error) {
	var resp usersResponse
	if err := c.do(ctx, "users", http.MethodGet, "/users", &cred, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Messages fetches the conversation with peerID, oldest first
func (c *APIClient) Messages(ctx context.Context, cred Credential, peerID string) ([]Message, error) {
	var resp messagesResponse
	if err := c.do(ctx, "messages", http.MethodGet, "/messages/"+url.PathEscape(peerID), &cred, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// SendMessage sends text to receiverID
func (c *APIClient) SendMessage(ctx context.Context, cred Credential, receiverID, text string) (*Message, error) {
	var m Message
	body := sendMessageRequest{ReceiverID: receiverID, Text: text}
	if err := c.do(ctx, "send message", http.MethodPost, "/messages", &cred, body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Favorites lists saved items, newest first
func (c *APIClient) Favorites(ctx context.Context, cred Credential) ([]Favorite, error) {
	var resp favoritesResponse
	if err := c.do(ctx, "favorites", http.MethodGet, "/favorites", &cred, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Favorites, nil
}

// AddFavorite saves an item
func (c *APIClient) AddFavorite(ctx context.Context, cred Credential, fav FavoriteInput) error {
	if fav.Type == "" {
		fav.Type = "text"
	}
	return c.do(ctx, "add favorite", http.MethodPost, "/favorites", &cred, fav, nil)
}

// Upload sends a file as multipart form data and returns its URL
func (c *APIClient) Upload(ctx context.Context, cred Credential, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", &FetchError{Op: "upload", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", &FetchError{Op: "upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &FetchError{Op: "upload", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &cred, &buf)
	if err != nil {
		return "", &FetchError{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponse
	if err := c.send(req, "upload", &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Reachable reports whether the backend answers HTTP at all.
func (c *APIClient) Reachable(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// BaseURL returns the API root, including the /api prefix
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) do(ctx context.Context, op, method, path string, cred *Credential, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, cred, reader)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op, out)
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, cred *Credential, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}
	if cred != nil {
		q := u.Query()
		cred.Apply(q)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *APIClient) send(req *http.Request, op string, out any) error {
	LogDebug("%s %s (request %s)", req.Method, req.URL.Path, req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var e errorResponse
		if json.Unmarshal(bodyBytes, &e) != nil {
			e.Detail = ""
		}
		return &FetchError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: e.Detail,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
