package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const directoryCacheVersion = "1"

// DefaultDirectoryTTL is how long a fetched user directory is trusted
const DefaultDirectoryTTL = 5 * time.Minute

// DirectoryCache keeps the last /users listing on disk so that peer IDs in
// the chat list can be shown by name without a round trip.
type DirectoryCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	Owner        string    `yaml:"owner"`
	BackendURL   string    `yaml:"backend_url"`
	CacheVersion string    `yaml:"cache_version"`
	FetchedAt    time.Time `yaml:"fetched_at"`
}

// UserIndex is the YAML document the cache writes
type UserIndex struct {
	Users    []User        `yaml:"users"`
	Metadata CacheMetadata `yaml:"metadata"`
}

// UserLister lists users; *APIClient satisfies it
type UserLister interface {
	Users(ctx context.Context, cred Credential) ([]User, error)
}

// NewDirectoryCache creates a cache backed by the YAML file at path
func NewDirectoryCache(path string, ttl time.Duration) *DirectoryCache {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	return &DirectoryCache{path: path, ttl: ttl, now: time.Now}
}

// Path returns the cache file location
func (c *DirectoryCache) Path() string {
	return c.path
}

// Load reads the cached index
func (c *DirectoryCache) Load() (*UserIndex, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var index UserIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &ParseError{Key: filepath.Base(c.path), Err: err}
	}
	return &index, nil
}

// Save writes the index
func (c *DirectoryCache) Save(index *UserIndex) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(c.path, data, 0600)
}

// Clear removes the cache file. A missing file is not an error.
func (c *DirectoryCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// IsValid reports whether index was fetched for owner from backendURL and
// is still fresh.
func (c *DirectoryCache) IsValid(index *UserIndex, owner, backendURL string) bool {
	if !c.belongsTo(index, owner, backendURL) {
		return false
	}
	return c.now().Sub(index.Metadata.FetchedAt) < c.ttl
}

func (c *DirectoryCache) belongsTo(index *UserIndex, owner, backendURL string) bool {
	return index != nil &&
		index.Metadata.CacheVersion == directoryCacheVersion &&
		index.Metadata.Owner == owner &&
		index.Metadata.BackendURL == backendURL
}

// Users returns the directory for the signed-in user ownerID, fetched with
// cred. A fresh cache is used unless refresh is set; otherwise the backend is
// asked and the answer cached. When the backend fails a stale cache for the
// same owner is returned instead. Only ownerID is written to the file.
func (c *DirectoryCache) Users(ctx context.Context, api UserLister, ownerID string, cred Credential, backendURL string, refresh bool) ([]User, error) {
	cached, err := c.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		LogWarn("Ignoring unreadable user cache: %v", err)
		cached = nil
	}
	if !refresh && c.IsValid(cached, ownerID, backendURL) {
		LogDebug("Using cached user directory (%d users)", len(cached.Users))
		return cached.Users, nil
	}

	users, err := api.Users(ctx, cred)
	if err != nil {
		if c.belongsTo(cached, ownerID, backendURL) {
			LogWarn("Using stale user directory: %v", err)
			return cached.Users, nil
		}
		return nil, err
	}

	index := &UserIndex{
		Users: users,
		Metadata: CacheMetadata{
			Owner:        ownerID,
			BackendURL:   backendURL,
			CacheVersion: directoryCacheVersion,
			FetchedAt:    c.now().UTC(),
		},
	}
	if err := c.Save(index); err != nil {
		LogWarn("Failed to save user cache: %v", err)
	}
	return users, nil
}

// UserByID finds id in users
func UserByID(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
