// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"accessgate/cli/internal/xdg"
)

// Settings holds the non-secret CLI settings persisted in the XDG config dir.
// Tokens never go here; they live in the OS keychain.
type Settings struct {
	BaseURL        string `json:"base_url"`
	StorageKey     string `json:"storage_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	LogLevel       string `json:"log_level"`
}

// Keys accepted by Settings.Set.
var settingKeys = []string{"base-url", "storage-key", "timeout", "log-level"}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadSettings reads the settings file; a missing file yields defaults.
func LoadSettings() (Settings, error) {
	var s Settings
	p, err := path()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.LogLevel = "info"
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", p, err)
	}
	return s, nil
}

// SaveSettings writes the settings file with 0600 permissions.
func SaveSettings(s Settings) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Set updates a single setting by its CLI name.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base-url":
		s.BaseURL = value
	case "storage-key":
		s.StorageKey = value
	case "timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return fmt.Errorf("timeout must be a non-negative number of seconds, got %q", value)
		}
		s.TimeoutSeconds = secs
	case "log-level":
		s.LogLevel = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingKeys, ", "))
	}
	return nil
}

// Config converts the persisted settings into a configuration layer.
func (s Settings) Config() Config {
	return Config{
		BaseURL:    s.BaseURL,
		StorageKey: s.StorageKey,
		Timeout:    time.Duration(s.TimeoutSeconds) * time.Second,
	}
}
