package internal

import (
	"encoding/json"
	"time"
)

// ProfileSettings are the extra fields /profile returns beyond identity.
type ProfileSettings struct {
	LastOnline           string `json:"last_online,omitempty" yaml:"last_online,omitempty"`
	InvisibleMode        bool   `json:"invisible_mode" yaml:"invisible_mode"`
	HideLastSeen         bool   `json:"hide_last_seen" yaml:"hide_last_seen"`
	HideProfileInfo      bool   `json:"hide_profile_info" yaml:"hide_profile_info"`
	Theme                string `json:"theme,omitempty" yaml:"theme,omitempty"`
	CustomPrimaryColor   string `json:"custom_primary_color,omitempty" yaml:"custom_primary_color,omitempty"`
	CustomSecondaryColor string `json:"custom_secondary_color,omitempty" yaml:"custom_secondary_color,omitempty"`
}

// Profile is the body of /login, /register and /profile responses
type Profile struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar,omitempty"`
	ProfileSettings
}

// User is an entry of the /users listing
type User struct {
	ID         string  `json:"id" yaml:"id"`
	Username   string  `json:"username" yaml:"username"`
	Avatar     *string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	LastOnline string  `json:"last_online,omitempty" yaml:"last_online,omitempty"`
}

// Message is a single message of a conversation
type Message struct {
	ID         string `json:"id" yaml:"id"`
	SenderID   string `json:"sender_id" yaml:"sender_id"`
	ReceiverID string `json:"receiver_id" yaml:"receiver_id"`
	Text       string `json:"text" yaml:"text"`
	Timestamp  string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	IsRead     bool   `json:"is_read" yaml:"is_read"`
}

// GetTimestamp parses the backend timestamp. The backend emits ISO-8601
// without a zone; those are taken as UTC.
func (m Message) GetTimestamp() time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Favorite is a saved item from /favorites
type Favorite struct {
	ID        string          `json:"id" yaml:"id"`
	Type      string          `json:"type" yaml:"type"`
	Text      string          `json:"text,omitempty" yaml:"text,omitempty"`
	FileURL   string          `json:"file_url,omitempty" yaml:"file_url,omitempty"`
	VoiceURL  string          `json:"voice_url,omitempty" yaml:"voice_url,omitempty"`
	Timestamp float64         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Orig      json.RawMessage `json:"orig,omitempty" yaml:"-"`
}

// GetTimestamp returns the save time; the backend sends unix seconds.
func (f Favorite) GetTimestamp() time.Time {
	if f.Timestamp == 0 {
		return time.Time{}
	}
	sec := int64(f.Timestamp)
	nsec := int64((f.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// FavoriteInput is the body of POST /favorites
type FavoriteInput struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	FileURL  string         `json:"file_url,omitempty"`
	VoiceURL string         `json:"voice_url,omitempty"`
	Orig     map[string]any `json:"orig,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	NewUsername string `json:"new_username"`
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

type usersResponse struct {
	Users []User `json:"users"`
}

type messagesResponse struct {
	Messages []Message `json:"messages"`
}

type favoritesResponse struct {
	Favorites []Favorite `json:"favorites"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
