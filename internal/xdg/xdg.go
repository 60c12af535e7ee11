// Package xdg resolves XDG Base Directory paths for accessgate.
//
// Settings go to the config directory; the encrypted file keyring, used when no
// native OS credential store is reachable, lives in the state directory.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "accessgate"

// ConfigDir returns the XDG config directory for accessgate, creating it with
// 0700 permissions if missing. Falls back to ~/.config/accessgate.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for accessgate, creating it with
// 0700 permissions if missing. Falls back to ~/.local/state/accessgate.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(envVar, homeRel string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
