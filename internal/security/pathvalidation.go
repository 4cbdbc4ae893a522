// Package security validates paths derived for temporary files.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory checks that filePath stays inside dir once
// both are cleaned and made absolute. The check is lexical: it does not touch
// the filesystem, so it also holds for files that do not exist yet.
func ValidatePathWithinDirectory(filePath, dir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return fmt.Errorf("failed to resolve directory path: %w", err)
	}

	relPath, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return fmt.Errorf("path is outside directory: %w", err)
	}

	// Reject paths that escape the directory or are the directory itself.
	if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("path traversal detected: %s is not inside %s", filePath, dir)
	}
	return nil
}

// ValidateToken checks that a temp-file token is non-empty and made only of
// ASCII letters and digits, so it cannot introduce separators or dots.
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("empty temp-file token")
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return fmt.Errorf("temp-file token %q contains %q", token, r)
		}
	}
	return nil
}
