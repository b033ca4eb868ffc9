// Package dotdir resolves the .reel/ directory holding reel's configuration
// and credentials.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the reel directory.
	DirName = ".reel"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to a .reel/ directory.
// Order of precedence is as follows:
//  1. Provided override, created if missing
//  2. Local ./.reel/ dir
//  3. Home ~/.reel/ dir
//
// When none of these exist Target returns an empty string; callers fall back
// to defaults and "reel init" creates the directory.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		if err := os.MkdirAll(overrideDir, 0o755); err != nil {
			return "", fmt.Errorf("creating reel directory %s: %w", overrideDir, err)
		}
		return filepath.Abs(overrideDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if isDir(filepath.Join(cwd, DirName)) {
		return filepath.Join(cwd, DirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	if isDir(filepath.Join(home, DirName)) {
		return filepath.Join(home, DirName), nil
	}

	return "", nil
}

// Init creates a .reel/ directory under parent and returns its path along
// with whether it already existed.
func (m *Manager) Init(parent string) (string, bool, error) {
	dir := filepath.Join(parent, DirName)
	if isDir(dir) {
		return dir, true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating reel directory %s: %w", dir, err)
	}
	return dir, false, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
