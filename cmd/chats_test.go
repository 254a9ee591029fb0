package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/msgr/internal"
)

func TestChats_RequiresLogin(t *testing.T) {
	env := newCLIEnv(t)
	if _, _, err := env.run(t, "chats"); !errors.Is(err, internal.ErrNoSession) {
		t.Errorf("chats error = %v, want ErrNoSession", err)
	}
}

func TestChats_Empty(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")

	stdout, _, err := env.run(t, "chats")
	if err != nil || !strings.Contains(stdout, "No conversations yet") {
		t.Errorf("chats = %q, %v", stdout, err)
	}
}

func TestSendTracksConversationOnce(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.AddUser("u2", "bob", "bob@b.com", "secret1")
	env.backend.AddUser("u3", "carol", "carol@b.com", "secret1")

	for _, args := range [][]string{
		{"send", "u2", "hi", "bob"},
		{"send", "u3", "hi carol"},
		{"send", "u2", "again"},
	} {
		if _, stderr, err := env.run(t, args...); err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, stderr)
		}
	}

	msgs := env.backend.Messages()
	if len(msgs) != 3 || msgs[0].Text != "hi bob" {
		t.Errorf("backend messages = %+v", msgs)
	}

	stdout, _, err := env.run(t, "chats")
	if err != nil {
		t.Fatalf("chats failed: %v", err)
	}
	if strings.Count(stdout, "u2") != 1 || strings.Count(stdout, "u3") != 1 {
		t.Errorf("each peer should be listed once:\n%s", stdout)
	}
	// Newest conversation first, shown by name.
	carol, bob := strings.Index(stdout, "carol"), strings.Index(stdout, "bob")
	if carol < 0 || bob < 0 || carol > bob {
		t.Errorf("chats order wrong:\n%s", stdout)
	}
}

func TestSendBlankIsIgnored(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")

	_, stderr, err := env.run(t, "send", "u2", "  ")
	if err != nil || !strings.Contains(stderr, "Nothing to send") {
		t.Errorf("send blank = %q, %v", stderr, err)
	}
	if len(env.backend.Messages()) != 0 {
		t.Error("blank message reached the backend")
	}
}

func TestSearchSelect(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.AddUser("u2", "bobby", "bob@b.com", "secret1")
	env.backend.AddUser("u3", "Bobcat", "cat@b.com", "secret1")

	stdout, _, err := env.run(t, "search", "BOB")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(stdout, "bobby") || !strings.Contains(stdout, "Bobcat") {
		t.Errorf("search output:\n%s", stdout)
	}

	stdout, _, err = env.run(t, "search", "bob", "--select", "u3")
	if err != nil || !strings.Contains(stdout, "Added Bobcat to chats") {
		t.Fatalf("search --select = %q, %v", stdout, err)
	}
	if _, _, err := env.run(t, "search", "bob", "--select", "u9"); err == nil {
		t.Error("selecting an ID outside the results succeeded")
	}

	stdout, _, _ = env.run(t, "chats")
	if !strings.Contains(stdout, "Bobcat") || strings.Contains(stdout, "bobby") {
		t.Errorf("chats after select:\n%s", stdout)
	}

	stdout, _, _ = env.run(t, "search", "zzz")
	if !strings.Contains(stdout, "No users found") {
		t.Errorf("empty search output = %q", stdout)
	}
}

func TestSearch_BackendError(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.Fail("GET /api/users", 503, "")

	stdout, stderr, err := env.run(t, "search", "bob")
	if err != nil {
		t.Fatalf("search with a failing backend error = %v", err)
	}
	if !strings.Contains(stdout, "No users found") {
		t.Errorf("search should show an empty view:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Could not load users") {
		t.Errorf("warning missing from stderr:\n%s", stderr)
	}
}

func TestChats_BackendDownUsesCachedNames(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.AddUser("u2", "bob", "bob@b.com", "secret1")
	if _, _, err := env.run(t, "send", "u2", "hi"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, _, err := env.run(t, "chats"); err != nil {
		t.Fatalf("chats failed: %v", err)
	}

	env.backend.Fail("GET /api/users", 500, "")
	stdout, _, err := env.run(t, "chats", "--refresh")
	if err != nil {
		t.Fatalf("chats --refresh failed: %v", err)
	}
	if !strings.Contains(stdout, "bob") {
		t.Errorf("cached name not used:\n%s", stdout)
	}
}
