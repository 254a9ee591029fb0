package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const (
	loginFallbackMessage    = "login failed"
	registerFallbackMessage = "registration failed"
	renameFallbackMessage   = "could not change username"
)

// Session is the locally known identity of the operator
type Session struct {
	UserID    string           `json:"user_id" yaml:"user_id"`
	Username  string           `json:"username" yaml:"username"`
	Email     string           `json:"email" yaml:"email"`
	AvatarURL string           `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Settings  *ProfileSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Loading   bool             `json:"-" yaml:"-"`
}

func (s *Session) valid() bool {
	return s.UserID != "" && s.Username != ""
}

func (s *Session) clone() *Session {
	c := *s
	if s.Settings != nil {
		settings := *s.Settings
		c.Settings = &settings
	}
	return &c
}

// AuthAPI is the part of the backend the session manager talks to
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*Profile, error)
	Register(ctx context.Context, username, email, password string) (*Profile, error)
	Profile(ctx context.Context, cred Credential) (*Profile, error)
	UpdateProfile(ctx context.Context, cred Credential, newUsername string) error
}

// SessionManager owns who is logged in and keeps it in durable storage
type SessionManager struct {
	api   AuthAPI
	store KeyValueStore

	mu         sync.Mutex
	session    *Session
	credential Credential
	loading    bool
}

// NewSessionManager creates a session manager with no session loaded.
// Call Restore before using it.
func NewSessionManager(api AuthAPI, store KeyValueStore) *SessionManager {
	return &SessionManager{api: api, store: store}
}

// Restore loads the persisted session. Both records must be present and
// agree with each other; anything else clears both and yields nil.
func (m *SessionManager) Restore() *Session {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	session, cred, err := m.readPersisted()
	if err != nil {
		LogWarn("Discarding persisted session: %v", err)
		m.clearPersisted()
		m.set(nil, Credential{})
		return nil
	}
	if session == nil {
		m.set(nil, Credential{})
		return nil
	}

	m.set(session, cred)
	LogDebug("Restored session for %s", session.Username)
	return session.clone()
}

func (m *SessionManager) readPersisted() (*Session, Credential, error) {
	blob, hasUser, err := m.store.Get(KeyUser)
	if err != nil {
		return nil, Credential{}, err
	}
	token, hasToken, err := m.store.Get(KeyToken)
	if err != nil {
		return nil, Credential{}, err
	}

	switch {
	case !hasUser && !hasToken:
		return nil, Credential{}, nil
	case !hasUser:
		return nil, Credential{}, errors.New("token present without user record")
	case !hasToken:
		return nil, Credential{}, errors.New("user record present without token")
	}

	var s Session
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return nil, Credential{}, &ParseError{Key: KeyUser, Err: err}
	}
	if !s.valid() {
		return nil, Credential{}, &ParseError{Key: KeyUser, Err: errors.New("missing user_id or username")}
	}
	if token == "" || token != s.UserID {
		return nil, Credential{}, &ParseError{Key: KeyToken, Err: errors.New("token does not match user record")}
	}

	return &s, CredentialFromUserID(token), nil
}

// Loading reports whether Restore is still running
func (m *SessionManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Current returns a copy of the active session, or nil
func (m *SessionManager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := m.session.clone()
	s.Loading = m.loading
	return s
}

// Credential returns the credential for authenticated calls
func (m *SessionManager) Credential() (Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential, !m.credential.IsZero()
}

// Submit validates the form and, only when it passes, logs in or registers.
func (m *SessionManager) Submit(ctx context.Context, form AuthForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if form.Mode == ModeRegister {
		return m.Register(ctx, form.Username, form.Email, form.Password)
	}
	return m.Login(ctx, form.Email, form.Password)
}

// Login authenticates and persists the resulting session
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	profile, err := m.api.Login(ctx, email, password)
	if err != nil {
		return authError("login", loginFallbackMessage, err)
	}
	return m.establish("login", profile)
}

// Register creates an account and persists the resulting session
func (m *SessionManager) Register(ctx context.Context, username, email, password string) error {
	profile, err := m.api.Register(ctx, username, email, password)
	if err != nil {
		return authError("register", registerFallbackMessage, err)
	}
	return m.establish("register", profile)
}

func (m *SessionManager) establish(op string, p *Profile) error {
	session := sessionFromProfile(p)
	if !session.valid() {
		return &AuthError{Op: op, Message: fallbackFor(op), Err: errors.New("response missing user_id or username")}
	}

	// The session becomes current only once both records are written.
	cred := CredentialFromUserID(session.UserID)
	if err := m.persist(session, cred); err != nil {
		LogError("Failed to persist session: %v", err)
		if cerr := m.clearPersisted(); cerr != nil {
			LogWarn("Failed to roll back partial session: %v", cerr)
		}
		m.set(nil, Credential{})
		return err
	}
	m.set(session, cred)
	LogInfo("Logged in as %s", session.Username)
	return nil
}

// RefreshProfile re-reads the profile from the backend. Failures are logged
// and leave the session untouched.
func (m *SessionManager) RefreshProfile(ctx context.Context) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	cred := m.credential
	m.mu.Unlock()

	profile, err := m.api.Profile(ctx, cred)
	if err != nil {
		LogWarn("Profile refresh failed: %v", err)
		return
	}

	m.mu.Lock()
	// A logout may have happened while the request was in flight.
	if m.session == nil || m.credential != cred {
		m.mu.Unlock()
		return
	}
	updated := m.session.clone()
	updated.Username = profile.Username
	updated.Email = profile.Email
	updated.AvatarURL = ""
	if profile.Avatar != nil {
		updated.AvatarURL = *profile.Avatar
	}
	settings := profile.ProfileSettings
	updated.Settings = &settings
	if !updated.valid() {
		m.mu.Unlock()
		LogWarn("Profile refresh returned no username, keeping cached profile")
		return
	}
	m.session = updated
	m.mu.Unlock()

	if err := m.persistUser(updated); err != nil {
		LogWarn("Failed to persist refreshed profile: %v", err)
	}
}

// Rename changes the username on the backend and in the local session
func (m *SessionManager) Rename(ctx context.Context, newUsername string) error {
	if msg := ValidateUsername(newUsername); msg != "" {
		return &ValidationError{Fields: map[string]string{"username": msg}}
	}

	cred, ok := m.Credential()
	if !ok {
		return ErrNoSession
	}
	if err := m.api.UpdateProfile(ctx, cred, newUsername); err != nil {
		return authError("rename", renameFallbackMessage, err)
	}

	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	updated := m.session.clone()
	updated.Username = newUsername
	m.session = updated
	m.mu.Unlock()

	return m.persistUser(updated)
}

// Logout forgets the session in memory and in storage. Safe to call when
// nobody is logged in.
func (m *SessionManager) Logout() error {
	m.set(nil, Credential{})
	return m.clearPersisted()
}

func (m *SessionManager) set(s *Session, cred Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.credential = cred
}

func (m *SessionManager) persist(s *Session, cred Credential) error {
	if err := m.persistUser(s); err != nil {
		return err
	}
	return m.store.Set(KeyToken, cred.Value())
}

func (m *SessionManager) persistUser(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return m.store.Set(KeyUser, string(data))
}

func (m *SessionManager) clearPersisted() error {
	errUser := m.store.Delete(KeyUser)
	errToken := m.store.Delete(KeyToken)
	return errors.Join(errUser, errToken)
}

func sessionFromProfile(p *Profile) *Session {
	s := &Session{
		UserID:   p.UserID,
		Username: p.Username,
		Email:    p.Email,
	}
	if p.Avatar != nil {
		s.AvatarURL = *p.Avatar
	}
	return s
}

// authError turns a backend failure into the single form-level message,
// preferring the backend's own detail.
func authError(op, fallback string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Detail != "" {
		return &AuthError{Op: op, Message: fe.Detail, Err: err}
	}
	return &AuthError{Op: op, Message: fallback, Err: err}
}

func fallbackFor(op string) string {
	if op == "register" {
		return registerFallbackMessage
	}
	return loginFallbackMessage
}
