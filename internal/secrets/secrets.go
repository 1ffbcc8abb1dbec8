// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: confluence-cookie, confluence-user, confluence-password,
// ncbi-api-key, ncbi-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Known key names. The core never persists credential material itself; it
// only reads whatever the operator placed here.
const (
	KeyCookie   = "confluence-cookie"
	KeyUser     = "confluence-user"
	KeyPassword = "confluence-password"
	KeyNCBI     = "ncbi-api-key"
	KeyEmail    = "ncbi-email"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// CookieHeader returns the stored cookie header, stripping an optional
// "Cookie: " prefix copied from browser developer tools.
func CookieHeader(secrets map[string]string) string {
	return strings.TrimSpace(strings.TrimPrefix(secrets[KeyCookie], "Cookie:"))
}
