package internal

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
)

// ChatAPI is the part of the backend the conversation view talks to
type ChatAPI interface {
	Users(ctx context.Context, cred Credential) ([]User, error)
	Messages(ctx context.Context, cred Credential, peerID string) ([]Message, error)
	SendMessage(ctx context.Context, cred Credential, receiverID, text string) (*Message, error)
	Favorites(ctx context.Context, cred Credential) ([]Favorite, error)
	AddFavorite(ctx context.Context, cred Credential, fav FavoriteInput) error
	Upload(ctx context.Context, cred Credential, filename string, r io.Reader) (string, error)
}

// CredentialSource supplies the credential for authenticated calls.
// *SessionManager satisfies it.
type CredentialSource interface {
	Credential() (Credential, bool)
}

// Conversation is the selected-peer view: its messages, the favorites
// panel, search and sending.
type Conversation struct {
	api   ChatAPI
	creds CredentialSource
	chats *ChatList

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	peerID     string
	messages   []Message
	favorites  []Favorite
}

// NewConversation creates a conversation view
func NewConversation(api ChatAPI, creds CredentialSource, chats *ChatList) *Conversation {
	return &Conversation{api: api, creds: creds, chats: chats}
}

// Open selects peerID and loads its messages. Opening another peer before
// this returns cancels this fetch; if its result still arrives it is dropped
// and ErrSuperseded is returned.
func (c *Conversation) Open(ctx context.Context, peerID string) ([]Message, error) {
	cred, ok := c.creds.Credential()
	if !ok {
		return nil, ErrNoSession
	}
	c.chats.MarkOpened(peerID)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.peerID = peerID
	c.messages = nil
	c.mu.Unlock()

	msgs, err := c.api.Messages(fetchCtx, cred, peerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		LogDebug("Dropping messages for %s, selection moved on", peerID)
		return nil, ErrSuperseded
	}
	cancel()
	c.cancel = nil
	if err != nil {
		LogWarn("Failed to load messages for %s: %v", peerID, err)
		return nil, err
	}
	c.messages = msgs
	return slices.Clone(msgs), nil
}

// Close cancels any in-flight fetch and clears the selection
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.peerID = ""
	c.messages = nil
}

// Selected returns the selected peer, or ""
func (c *Conversation) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peerID
}

// Messages returns the last messages loaded for the selected peer
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Send sends text to peerID and starts tracking the peer in the chat list.
// Blank text is ignored.
func (c *Conversation) Send(ctx context.Context, peerID, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	cred, ok := c.creds.Credential()
	if !ok {
		return nil, ErrNoSession
	}

	msg, err := c.api.SendMessage(ctx, cred, peerID, text)
	if err != nil {
		LogWarn("Failed to send message to %s: %v", peerID, err)
		return nil, err
	}

	if _, err := c.chats.EnsureTracked(peerID); err != nil {
		LogWarn("Failed to save chat list: %v", err)
	}

	c.mu.Lock()
	if c.peerID == peerID && msg != nil {
		c.messages = append(c.messages, *msg)
	}
	c.mu.Unlock()

	return msg, nil
}

// Search lists users whose name contains query, ignoring case. An empty
// query matches nobody.
func (c *Conversation) Search(ctx context.Context, query string) ([]User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	cred, ok := c.creds.Credential()
	if !ok {
		return nil, ErrNoSession
	}

	users, err := c.api.Users(ctx, cred)
	if err != nil {
		LogWarn("User search failed: %v", err)
		return nil, err
	}

	var matches []User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), query) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// SelectFromSearch tracks a peer chosen from search results
func (c *Conversation) SelectFromSearch(peerID string) error {
	_, err := c.chats.EnsureTracked(peerID)
	return err
}

// LoadFavorites fetches the favorites panel. A result that arrives after
// the selection changed is dropped.
func (c *Conversation) LoadFavorites(ctx context.Context) ([]Favorite, error) {
	cred, ok := c.creds.Credential()
	if !ok {
		return nil, ErrNoSession
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	favs, err := c.api.Favorites(ctx, cred)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		LogWarn("Failed to load favorites: %v", err)
		return nil, err
	}
	c.favorites = favs
	return slices.Clone(favs), nil
}

// AddFavorite saves an item to favorites
func (c *Conversation) AddFavorite(ctx context.Context, fav FavoriteInput) error {
	cred, ok := c.creds.Credential()
	if !ok {
		return ErrNoSession
	}
	if err := c.api.AddFavorite(ctx, cred, fav); err != nil {
		LogWarn("Failed to save favorite: %v", err)
		return err
	}
	return nil
}

// Upload uploads a file and returns its URL
func (c *Conversation) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	cred, ok := c.creds.Credential()
	if !ok {
		return "", ErrNoSession
	}
	u, err := c.api.Upload(ctx, cred, filename, r)
	if err != nil {
		LogWarn("Upload of %s failed: %v", filename, err)
		return "", err
	}
	return u, nil
}
