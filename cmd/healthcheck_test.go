package cmd

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthcheck(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.run(t, "healthcheck", "--verbose")
	if err != nil {
		t.Fatalf("healthcheck failed: %v\n%s", err, stdout)
	}
	for _, want := range []string{"Configuration loaded", "State database readable", "Backend reachable", "Not logged in", "Health check passed", env.backend.URL()} {
		if !strings.Contains(stdout, want) {
			t.Errorf("healthcheck output missing %q:\n%s", want, stdout)
		}
	}

	env.login(t, "u1", "alice", "a@b.com")
	stdout, _, _ = env.run(t, "healthcheck")
	if !strings.Contains(stdout, "Logged in as alice") {
		t.Errorf("healthcheck should report the session:\n%s", stdout)
	}
}

func TestHealthcheck_BackendDown(t *testing.T) {
	env := newCLIEnv(t)
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	stdout, _, err := execute([]string{"--storage", env.dir, "--config", env.dir + "/none.yaml", "--backend", down.URL, "healthcheck"}, "")
	if err == nil {
		t.Fatal("healthcheck passed with the backend down")
	}
	if !strings.Contains(stdout, "Backend not reachable") || !strings.Contains(stdout, "Health check failed") {
		t.Errorf("healthcheck output:\n%s", stdout)
	}
}
