// console/script.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package console

import (
	"fmt"
	"os"
	"strings"
)

// A Script is a stored sequence of command lines, either read from a file
// or supplied directly in memory. Scripts are registered with a System and
// replayed with RunScript; blank lines are ignored at dispatch time.
type Script struct {
	path       string
	fromMemory bool
	lines      []string
}

// NewScript returns a script bound to a file path. If load is true the file
// is read immediately; otherwise reading is deferred until Load or the
// first replay.
func NewScript(path string, load bool) (*Script, error) {
	s := &Script{path: path}
	if load {
		if err := s.Load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ScriptFromLines returns a script holding the given lines directly; it has
// no backing file and Load/Reload leave it unchanged.
func ScriptFromLines(lines ...string) *Script {
	return &Script{fromMemory: true, lines: append([]string(nil), lines...)}
}

// Load reads the script's file, replacing any previously loaded lines.
func (s *Script) Load() error {
	if s.fromMemory {
		return nil
	}
	if s.path == "" {
		return fmt.Errorf("script has no path")
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}

	text := strings.ReplaceAll(string(b), "\r\n", "\n")
	s.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	return nil
}

// Reload drops the loaded lines and reads the file again.
func (s *Script) Reload() error {
	s.Unload()
	return s.Load()
}

// Unload discards the loaded lines; the path is kept.
func (s *Script) Unload() {
	if !s.fromMemory {
		s.lines = nil
	}
}

// SetPath rebinds a file-backed script to a new path without loading it.
func (s *Script) SetPath(path string) {
	s.path = path
	s.fromMemory = false
}

func (s *Script) Path() string { return s.path }

// Lines returns the script's lines, loading from the file first if nothing
// is loaded yet.
func (s *Script) Lines() ([]string, error) {
	if len(s.lines) == 0 && !s.fromMemory {
		if err := s.Load(); err != nil {
			return nil, err
		}
	}
	return s.lines, nil
}
