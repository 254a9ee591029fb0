package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataPaths holds where msgr keeps its config and state
type DataPaths struct {
	BaseDir    string // per-user msgr directory
	ConfigFile string // config.yaml
	StateDB    string // SQLite key/value store
}

// DetectDataPaths picks the per-user directory for the current OS.
// XDG_CONFIG_HOME is honoured on Linux.
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library/Application Support/msgr")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "msgr")
		} else {
			base = filepath.Join(home, ".config/msgr")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			base = filepath.Join(appData, "msgr")
		} else {
			base = filepath.Join(home, "AppData/Roaming/msgr")
		}
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return dataPathsAt(base), nil
}

// GetDataPaths returns the detected paths, with the state database moved
// to customState when it is set. customState may name a file or a
// directory.
func GetDataPaths(customState string) (DataPaths, error) {
	paths, err := DetectDataPaths()
	if err != nil {
		return DataPaths{}, err
	}
	if customState == "" {
		return paths, nil
	}

	info, err := os.Stat(customState)
	if err == nil && info.IsDir() {
		paths.StateDB = filepath.Join(customState, "state.db")
	} else {
		paths.StateDB = customState
	}
	return paths, nil
}

func dataPathsAt(base string) DataPaths {
	return DataPaths{
		BaseDir:    base,
		ConfigFile: filepath.Join(base, "config.yaml"),
		StateDB:    filepath.Join(base, "state.db"),
	}
}

// StateExists checks if the state database has been created
func (p DataPaths) StateExists() bool {
	_, err := os.Stat(p.StateDB)
	return err == nil
}

// ConfigExists checks if a config file is present
func (p DataPaths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// DirectoryCacheFile is where the user directory is cached, next to the
// state database
func (p DataPaths) DirectoryCacheFile() string {
	return filepath.Join(filepath.Dir(p.StateDB), "users.yaml")
}
