package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/msgr/testutil"
	"github.com/spf13/cobra"
)

// cliEnv runs the command tree against a fake backend with state kept in a
// temporary directory.
type cliEnv struct {
	backend *testutil.FakeBackend
	dir     string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("MSGR_BACKEND_URL", "")
	t.Setenv("MSGR_TIMEOUT_SECONDS", "")
	return &cliEnv{
		backend: testutil.NewFakeBackend(t),
		dir:     testutil.CreateTempDir(t),
	}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *cliEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	full := append([]string{
		"--storage", e.dir,
		"--backend", e.backend.URL(),
		"--config", filepath.Join(e.dir, "config.yaml"),
	}, args...)
	return execute(full, stdin)
}

// login signs in as a user created on the fake backend
func (e *cliEnv) login(t *testing.T, id, username, email string) {
	t.Helper()
	e.backend.AddUser(id, username, email, "secret1")
	if _, stderr, err := e.run(t, "login", "--email", email, "--password", "secret1"); err != nil {
		t.Fatalf("login failed: %v\n%s", err, stderr)
	}
}

func execute(args []string, stdin string) (string, string, error) {
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores flag variables between runs; cobra keeps them.
func resetFlags() {
	verbose = false
	storagePath, backendURL, configPath = "", "", ""
	authUsername, authEmail, authPassword = "", "", ""
	whoamiRefresh = false
	chatsRefresh = false
	limit = 0
	searchSelect = ""
	favType, favText, favFileURL, favVoiceURL = "", "", "", ""
	uploadTo = ""
	format, outputDir = "md", "."
	watchDuration, watchInterval = 0, 0
	inspectFormat, inspectPattern = "table", "%"
	configForce = false

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
				f.Changed = false
			}
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
