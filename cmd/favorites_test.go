package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/msgr/testutil"
)

func TestFavorites(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")

	stdout, _, err := env.run(t, "favorites", "list")
	if err != nil || !strings.Contains(stdout, "No favorites yet") {
		t.Fatalf("favorites list = %q, %v", stdout, err)
	}

	if _, _, err := env.run(t, "favorites", "add", "--text", "remember this"); err != nil {
		t.Fatalf("favorites add failed: %v", err)
	}
	if _, _, err := env.run(t, "fav", "add", "--file-url", "/static/uploads/x.png"); err != nil {
		t.Fatalf("fav add failed: %v", err)
	}

	stdout, _, err = env.run(t, "favorites", "list")
	if err != nil {
		t.Fatalf("favorites list failed: %v", err)
	}
	file, text := strings.Index(stdout, "/static/uploads/x.png"), strings.Index(stdout, "remember this")
	if file < 0 || text < 0 || file > text {
		t.Errorf("favorites should be newest first:\n%s", stdout)
	}
	if !strings.Contains(stdout, "file") {
		t.Errorf("file favorite type missing:\n%s", stdout)
	}
}

func TestFavorites_BackendError(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.Fail("GET /api/favorites", 503, "")

	stdout, stderr, err := env.run(t, "favorites", "list")
	if err != nil {
		t.Fatalf("favorites list with a failing backend error = %v", err)
	}
	if !strings.Contains(stdout, "No favorites yet") {
		t.Errorf("favorites list should show an empty view:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Could not load favorites") {
		t.Errorf("warning missing from stderr:\n%s", stderr)
	}
}

func TestFavoritesAdd_RequiresContent(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	before := env.backend.TotalCalls()

	if _, _, err := env.run(t, "favorites", "add"); err == nil {
		t.Error("favorites add with nothing succeeded")
	}
	if env.backend.TotalCalls() != before {
		t.Error("empty favorite reached the backend")
	}
}

func TestUpload(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")
	env.backend.AddUser("u2", "bob", "bob@b.com", "secret1")
	path := testutil.WriteFile(t, testutil.CreateTempDir(t), "photo.jpg", []byte("JPEGDATA"))

	stdout, stderr, err := env.run(t, "upload", path, "--to", "u2")
	if err != nil {
		t.Fatalf("upload failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "/static/uploads/1714557600_photo.jpg") {
		t.Errorf("upload output = %q", stdout)
	}
	if data, ok := env.backend.Upload("1714557600_photo.jpg"); !ok || string(data) != "JPEGDATA" {
		t.Errorf("backend stored %q, %v", data, ok)
	}

	msgs := env.backend.Messages()
	if len(msgs) != 1 || msgs[0].ReceiverID != "u2" || !strings.HasSuffix(msgs[0].Text, "photo.jpg") {
		t.Errorf("sent messages = %+v", msgs)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "u1", "alice", "a@b.com")

	if _, _, err := env.run(t, "upload", filepath.Join(env.dir, "missing.bin")); err == nil {
		t.Error("upload of a missing file succeeded")
	}
}
