// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Settings store for texelterm.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const configName = "texelterm.json"

// Settings holds user-tunable options. Zero values are replaced by
// defaults on load.
type Settings struct {
	// Shell is the executable spawned for new sessions. Empty means
	// $SHELL, falling back to /bin/sh.
	Shell string `json:"shell,omitempty"`

	// Env holds extra environment entries for the child process.
	Env map[string]string `json:"env,omitempty"`

	// ScrollbackLines caps the in-memory scrollback. Default 10000.
	ScrollbackLines int `json:"scrollback_lines,omitempty"`

	// DebounceMillis is the output batching window. Default 16.
	DebounceMillis int `json:"debounce_millis,omitempty"`

	// HistoryEnabled turns on the on-disk scrollback archive.
	HistoryEnabled bool `json:"history_enabled,omitempty"`

	// HistoryPath overrides the archive location. Empty means
	// <config dir>/texelterm/history.db.
	HistoryPath string `json:"history_path,omitempty"`
}

var (
	mu      sync.RWMutex
	once    sync.Once
	current Settings
	loadErr error
)

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Shell:           defaultShell(),
		ScrollbackLines: 10000,
		DebounceMillis:  16,
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// Dir returns the texelterm configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no user config dir: %w", err)
	}
	return filepath.Join(base, "texelterm"), nil
}

// Path returns the settings file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName), nil
}

// Get returns the current settings, loading the file on first use.
// A missing file is not an error; defaults apply.
func Get() Settings {
	once.Do(load)
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Err returns the most recent load error, if any.
func Err() error {
	once.Do(load)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

func load() {
	mu.Lock()
	defer mu.Unlock()
	current = Defaults()

	path, err := Path()
	if err != nil {
		loadErr = err
		return
	}
	loadErr = readInto(path, &current)
}

// Load reads settings from an explicit path, applying defaults for
// absent fields. A missing file yields pure defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	err := readInto(path, &s)
	return s, err
}

func readInto(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	s.applyDefaults()
	return nil
}

func (s *Settings) applyDefaults() {
	d := Defaults()
	if s.Shell == "" {
		s.Shell = d.Shell
	}
	if s.ScrollbackLines <= 0 {
		s.ScrollbackLines = d.ScrollbackLines
	}
	if s.DebounceMillis <= 0 {
		s.DebounceMillis = d.DebounceMillis
	}
}

// Debounce returns the batching window as a duration.
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// ArchivePath resolves the history database location.
func (s Settings) ArchivePath() (string, error) {
	if s.HistoryPath != "" {
		return s.HistoryPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Save writes settings to an explicit path, creating the directory if
// needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
