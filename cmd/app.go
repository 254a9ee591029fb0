package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

// app wires the client components for one command run
type app struct {
	paths   internal.DataPaths
	cfg     internal.Config
	store   *internal.Storage
	api     *internal.APIClient
	session *internal.SessionManager
	chats   *internal.ChatList
	conv    *internal.Conversation
	users   *internal.DirectoryCache
}

// loadConfig resolves the configuration: --backend beats the environment,
// which beats the config file, which beats the defaults.
func loadConfig() (internal.DataPaths, internal.Config, error) {
	paths, err := internal.GetDataPaths(storagePath)
	if err != nil {
		return internal.DataPaths{}, internal.Config{}, fmt.Errorf("failed to get data paths: %w", err)
	}
	if configPath != "" {
		paths.ConfigFile = configPath
	}

	cfg, err := internal.LoadConfig(paths.ConfigFile)
	if err != nil {
		return internal.DataPaths{}, internal.Config{}, err
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
		if err := cfg.Validate(); err != nil {
			return internal.DataPaths{}, internal.Config{}, err
		}
	}
	return paths, cfg, nil
}

// newApp opens local state and restores any saved session
func newApp() (*app, error) {
	paths, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := internal.OpenStorage(paths.StateDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open state: %w", err)
	}
	internal.LogDebug("State: %s, backend: %s", paths.StateDB, cfg.BackendURL)

	api := internal.NewAPIClient(cfg.BackendURL, cfg.Timeout)
	session := internal.NewSessionManager(api, store)
	session.Restore()
	chats := internal.NewChatList(store)
	chats.Load()

	return &app{
		paths:   paths,
		cfg:     cfg,
		store:   store,
		api:     api,
		session: session,
		chats:   chats,
		conv:    internal.NewConversation(api, session, chats),
		users:   internal.NewDirectoryCache(paths.DirectoryCacheFile(), internal.DefaultDirectoryTTL),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close state: %v", err)
	}
}

// requireSession returns the signed-in user or ErrNoSession
func (a *app) requireSession() (*internal.Session, error) {
	s := a.session.Current()
	if s == nil {
		return nil, fmt.Errorf("%w (run 'msgr login' first)", internal.ErrNoSession)
	}
	return s, nil
}

// directory returns known users, best effort. An unreachable backend with
// no cache yields nil and a warning.
func (a *app) directory(cmd *cobra.Command, refresh bool) []internal.User {
	me := a.session.Current()
	cred, ok := a.session.Credential()
	if me == nil || !ok {
		return nil
	}
	users, err := a.users.Users(cmd.Context(), a.api, me.UserID, cred, a.cfg.BackendURL, refresh)
	if err != nil {
		internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Could not load user names: %v", err))
		return nil
	}
	return users
}

// warnTransient turns a backend failure into a warning on stderr so the
// command can render an empty view. Anything else, including cancellation,
// is returned unchanged.
func warnTransient(cmd *cobra.Command, what string, err error) error {
	var fetchErr *internal.FetchError
	if !errors.As(err, &fetchErr) || errors.Is(err, context.Canceled) {
		return err
	}
	internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Could not load %s: %v", what, err))
	return nil
}

// displayName names a user ID for output
func displayName(users []internal.User, id string) string {
	if u, ok := internal.UserByID(users, id); ok && u.Username != "" {
		return u.Username
	}
	return id
}

// withApp runs fn with a fresh app that is closed afterwards
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
