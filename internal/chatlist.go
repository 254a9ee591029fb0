package internal

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ChatList is the device-local list of peers the operator has talked to,
// most recently added first. The backend keeps no such list.
type ChatList struct {
	store KeyValueStore

	mu     sync.Mutex
	loaded bool
	peers  []string
	unread map[string]int
}

// NewChatList creates a chat list backed by store. Nothing is read until
// Load or the first mutation.
func NewChatList(store KeyValueStore) *ChatList {
	return &ChatList{
		store:  store,
		unread: make(map[string]int),
	}
}

// Load reads the persisted list. A missing or corrupt record yields an
// empty list.
func (c *ChatList) Load() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	return slices.Clone(c.peers)
}

func (c *ChatList) loadLocked() {
	c.loaded = true
	c.peers = []string{}

	raw, ok, err := c.store.Get(KeyChatsList)
	if err != nil {
		LogWarn("Failed to read chat list: %v", err)
		return
	}
	if !ok {
		return
	}

	var peers []string
	if err := json.Unmarshal([]byte(raw), &peers); err != nil {
		LogWarn("Discarding corrupt chat list: %v", &ParseError{Key: KeyChatsList, Err: err})
		return
	}

	// Older records may carry blanks or repeats; keep the first occurrence.
	seen := make(map[string]bool, len(peers))
	for _, p := range peers {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		c.peers = append(c.peers, p)
	}
}

// EnsureTracked prepends peerID when it is not in the list yet and persists
// the result. A peer already present keeps its position. It reports whether
// the list changed.
func (c *ChatList) EnsureTracked(peerID string) (bool, error) {
	if peerID == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.loadLocked()
	}

	if slices.Contains(c.peers, peerID) {
		return false, nil
	}

	c.peers = append([]string{peerID}, c.peers...)
	LogDebug("Tracking new peer %s", peerID)
	return true, c.persistLocked()
}

// Persist writes the whole list to storage
func (c *ChatList) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked()
}

func (c *ChatList) persistLocked() error {
	peers := c.peers
	if peers == nil {
		peers = []string{}
	}
	data, err := json.Marshal(peers)
	if err != nil {
		return fmt.Errorf("failed to marshal chat list: %w", err)
	}
	return c.store.Set(KeyChatsList, string(data))
}

// Peers returns the current list in order
func (c *ChatList) Peers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.loadLocked()
	}
	return slices.Clone(c.peers)
}

// MarkOpened drops the unread entry for peerID.
func (c *ChatList) MarkOpened(peerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unread, peerID)
}

// Unread returns a copy of the unread counters. The backend exposes no
// per-peer counts, so this is always empty for now.
func (c *ChatList) Unread() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.unread)
}

// RefreshUnread is the periodic unread refresh. It resets the counters
// until the backend can report real ones.
func (c *ChatList) RefreshUnread() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.unread)
	LogDebug("Unread counters refreshed (%d peers)", len(c.peers))
}
