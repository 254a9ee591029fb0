package internal

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/iksnae/msgr/testutil"
)

func TestDetectDataPaths(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}
	paths, err := DetectDataPaths()
	if err != nil {
		t.Fatalf("DetectDataPaths() error = %v", err)
	}

	if paths.BaseDir == "" {
		t.Fatal("BaseDir should not be empty")
	}
	if runtime.GOOS == "linux" && paths.BaseDir != "/tmp/xdg/msgr" {
		t.Errorf("BaseDir = %q, want /tmp/xdg/msgr", paths.BaseDir)
	}
	if paths.ConfigFile != filepath.Join(paths.BaseDir, "config.yaml") {
		t.Errorf("ConfigFile = %q", paths.ConfigFile)
	}
	if paths.StateDB != filepath.Join(paths.BaseDir, "state.db") {
		t.Errorf("StateDB = %q", paths.StateDB)
	}
}

func TestGetDataPaths_CustomState(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	tests := []struct {
		name   string
		custom string
		want   string
	}{
		{name: "directory", custom: dir, want: filepath.Join(dir, "state.db")},
		{name: "file", custom: filepath.Join(dir, "alt.db"), want: filepath.Join(dir, "alt.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := GetDataPaths(tt.custom)
			if err != nil {
				t.Fatalf("GetDataPaths() error = %v", err)
			}
			if paths.StateDB != tt.want {
				t.Errorf("StateDB = %q, want %q", paths.StateDB, tt.want)
			}
			if paths.ConfigFile == "" {
				t.Error("ConfigFile should keep its detected location")
			}
		})
	}
}

func TestDataPaths_Exists(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	paths := dataPathsAt(dir)

	if paths.StateExists() || paths.ConfigExists() {
		t.Error("fresh directory reports existing files")
	}

	testutil.WriteFile(t, dir, "config.yaml", []byte("timeout: 5s\n"))
	store, err := OpenStorage(paths.StateDB)
	if err != nil {
		t.Fatalf("OpenStorage() error = %v", err)
	}
	_ = store.Close()

	if !paths.StateExists() || !paths.ConfigExists() {
		t.Error("created files not detected")
	}
}
