package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/msgr/internal"
)

func TestWatch(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")

	stdout, _, err := env.run(t, "watch", "--duration", "200ms", "--interval", "10ms")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if !strings.Contains(stdout, "Watching 0 chats every 10ms") {
		t.Errorf("watch output = %q", stdout)
	}
	if !strings.Contains(stdout, "Stopped after") || strings.Contains(stdout, "Stopped after 0 refreshes") {
		t.Errorf("watch should have refreshed at least once:\n%s", stdout)
	}
}

func TestWatch_RequiresLogin(t *testing.T) {
	env := newCLIEnv(t)
	if _, _, err := env.run(t, "watch", "--duration", "10ms"); !errors.Is(err, internal.ErrNoSession) {
		t.Errorf("watch error = %v, want ErrNoSession", err)
	}
}
