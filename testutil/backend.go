package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// FakeUser is an account on the fake backend
type FakeUser struct {
	ID       string
	Username string
	Email    string
	Password string
	Avatar   string
}

// FakeMessage is a message stored by the fake backend
type FakeMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
	IsRead     bool   `json:"is_read"`
}

type failure struct {
	status int
	detail string
}

// FakeBackend is an in-process messenger backend for client tests. It
// follows the /api contract of the real backend closely enough to exercise
// every client call.
type FakeBackend struct {
	Server *httptest.Server

	mu           sync.Mutex
	messagesHook func(r *http.Request, peerID string)
	users        map[string]*FakeUser
	messages     []FakeMessage
	favorites    map[string][]map[string]any
	uploads      map[string][]byte
	calls        map[string]int
	total        int
	failures     map[string]failure
	nextID       int
}

// NewFakeBackend starts a fake backend that is closed after the test
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		users:     make(map[string]*FakeUser),
		favorites: make(map[string][]map[string]any),
		uploads:   make(map[string][]byte),
		calls:     make(map[string]int),
		failures:  make(map[string]failure),
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the backend root (without /api)
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// AddUser registers an account directly
func (b *FakeBackend) AddUser(id, username, email, password string) *FakeUser {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &FakeUser{ID: id, Username: username, Email: email, Password: password}
	b.users[id] = u
	return u
}

// User returns a copy of an account by ID
func (b *FakeBackend) User(id string) (FakeUser, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	if !ok {
		return FakeUser{}, false
	}
	return *u, true
}

// Fail makes "METHOD /api/path" answer with status and detail until cleared
func (b *FakeBackend) Fail(route string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, detail: detail}
}

// ClearFailures removes all injected failures
func (b *FakeBackend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]failure)
}

// Calls counts requests to "METHOD /api/path"
func (b *FakeBackend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// TotalCalls counts every request received
func (b *FakeBackend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Messages returns every stored message
func (b *FakeBackend) Messages() []FakeMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]FakeMessage(nil), b.messages...)
}

// AddMessage stores a message directly
func (b *FakeBackend) AddMessage(senderID, receiverID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.storeMessageLocked(senderID, receiverID, text)
}

// OnMessages installs a hook that runs before GET /api/messages/{peer}
// answers. Tests use it to hold a response back.
func (b *FakeBackend) OnMessages(hook func(r *http.Request, peerID string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messagesHook = hook
}

func (b *FakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", b.handleRegister)
		r.Post("/login", b.handleLogin)
		r.Get("/profile", b.handleProfile)
		r.Post("/update_profile", b.handleUpdateProfile)
		r.Get("/users", b.handleUsers)
		r.Get("/messages/{peerID}", b.handleMessages)
		r.Post("/messages", b.handleSendMessage)
		r.Get("/favorites", b.handleFavorites)
		r.Post("/favorites", b.handleAddFavorite)
		r.Post("/upload", b.handleUpload)
	})

	return r
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.total++
		b.calls[route]++
		f, failing := b.failures[route]
		b.mu.Unlock()

		if failing {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == req.Email {
			writeDetail(w, http.StatusBadRequest, "email already in use")
			return
		}
		if u.Username == req.Username {
			writeDetail(w, http.StatusBadRequest, "username already taken")
			return
		}
	}

	b.nextID++
	u := &FakeUser{
		ID:       fmt.Sprintf("user-%d", b.nextID),
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	b.users[u.ID] = u
	writeJSON(w, http.StatusOK, map[string]any{"user_id": u.ID, "username": u.Username, "email": u.Email})
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == req.Email && u.Password == req.Password {
			writeJSON(w, http.StatusOK, map[string]any{"user_id": u.ID, "username": u.Username, "email": u.Email})
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "wrong email or password")
}

func (b *FakeBackend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[r.URL.Query().Get("token")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}

	var avatar any
	if u.Avatar != "" {
		avatar = u.Avatar
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":                u.ID,
		"username":               u.Username,
		"email":                  u.Email,
		"avatar":                 avatar,
		"last_online":            "2024-05-01T10:00:00",
		"invisible_mode":         false,
		"hide_last_seen":         true,
		"hide_profile_info":      false,
		"theme":                  "dark",
		"custom_primary_color":   "#3B82F6",
		"custom_secondary_color": "#1E40AF",
	})
}

func (b *FakeBackend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewUsername string `json:"new_username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	token := r.URL.Query().Get("token")
	u, ok := b.users[token]
	if !ok {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	for id, other := range b.users {
		if id != token && other.Username == req.NewUsername {
			writeDetail(w, http.StatusBadRequest, "username already taken")
			return
		}
	}
	u.Username = req.NewUsername
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (b *FakeBackend) handleUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := r.URL.Query().Get("token")
	if _, ok := b.users[token]; !ok {
		writeDetail(w, http.StatusUnauthorized, "invalid token")
		return
	}

	users := make([]map[string]any, 0, len(b.users))
	for id, u := range b.users {
		if id == token {
			continue
		}
		users = append(users, map[string]any{"id": u.ID, "username": u.Username, "avatar": nil, "last_online": "2024-05-01T10:00:00"})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (b *FakeBackend) handleMessages(w http.ResponseWriter, r *http.Request) {
	peerID := chi.URLParam(r, "peerID")
	b.mu.Lock()
	hook := b.messagesHook
	b.mu.Unlock()
	if hook != nil {
		hook(r, peerID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	token := r.URL.Query().Get("token")
	msgs := make([]FakeMessage, 0)
	for i, m := range b.messages {
		if (m.SenderID == token && m.ReceiverID == peerID) || (m.SenderID == peerID && m.ReceiverID == token) {
			msgs = append(msgs, m)
			if m.ReceiverID == token {
				b.messages[i].IsRead = true
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (b *FakeBackend) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.storeMessageLocked(r.URL.Query().Get("token"), req.ReceiverID, req.Text)
	writeJSON(w, http.StatusOK, m)
}

func (b *FakeBackend) storeMessageLocked(senderID, receiverID, text string) FakeMessage {
	b.nextID++
	m := FakeMessage{
		ID:         fmt.Sprintf("msg-%d", b.nextID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  time.Date(2024, 5, 1, 10, 0, b.nextID, 0, time.UTC).Format("2006-01-02T15:04:05"),
	}
	b.messages = append(b.messages, m)
	return m
}

func (b *FakeBackend) handleFavorites(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	favs := b.favorites[r.URL.Query().Get("token")]
	if favs == nil {
		favs = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

func (b *FakeBackend) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var fav map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fav); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	token := r.URL.Query().Get("token")
	b.nextID++
	fav["id"] = fmt.Sprintf("fav-%d", b.nextID)
	fav["timestamp"] = float64(1714557600 + b.nextID)
	// Newest first, as the real backend orders them.
	b.favorites[token] = append([]map[string]any{fav}, b.favorites[token]...)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (b *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") == "" {
		writeDetail(w, http.StatusUnauthorized, "no token")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "read failed")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	name := fmt.Sprintf("%d_%s", 1714557600, strings.ReplaceAll(header.Filename, "/", "_"))
	b.uploads[name] = data
	writeJSON(w, http.StatusOK, map[string]any{"url": "/static/uploads/" + name})
}

// Upload returns the bytes stored for an uploaded file name
func (b *FakeBackend) Upload(name string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.uploads[name]
	return data, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]any{"detail": detail})
}
