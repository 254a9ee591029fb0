package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInspect(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t, "user-secret-id", "alice", "a@b.com")
	if _, _, err := env.run(t, "send", "u2", "hi"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	stdout, _, err := env.run(t, "inspect")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"chatsList", "token", "user", "user****"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
	tokenLine := ""
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "token") {
			tokenLine = line
		}
	}
	if strings.Contains(tokenLine, "secret") {
		t.Errorf("credential not redacted: %q", tokenLine)
	}

	stdout, _, err = env.run(t, "inspect", "--format", "json", "--key", "chats%")
	if err != nil {
		t.Fatalf("inspect --format json failed: %v", err)
	}
	var records []inspectRecord
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("inspect json: %v\n%s", err, stdout)
	}
	if len(records) != 1 || records[0].Key != "chatsList" || records[0].Value != `["u2"]` {
		t.Errorf("records = %+v", records)
	}

	if _, _, err := env.run(t, "inspect", "--format", "xml"); err == nil {
		t.Error("inspect accepted an unknown format")
	}
}
