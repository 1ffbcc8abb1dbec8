// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backup persists timestamped snapshots of page content before
// mutations. Snapshots are immutable: the store never overwrites or
// deletes a file once written.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotExt = ".html"

// timestampFormat is second resolution, sortable within a label.
const timestampFormat = "20060102_150405"

// Ref identifies one stored snapshot.
type Ref struct {
	// Name is the snapshot filename, "<label>_<YYYYMMDD_HHMMSS>.html".
	Name string

	// Label is the semantic tag of the triggering operation.
	Label string

	// CreatedAt is the file's modification time.
	CreatedAt time.Time

	// Size is the snapshot size in bytes.
	Size int64
}

// Store writes snapshots into a single directory. The directory is
// created on first save.
type Store struct {
	dir string

	// now is replaceable in tests.
	now func() time.Time
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the backup directory path.
func (s *Store) Dir() string { return s.dir }

// Save writes content to a new timestamped file and returns its ref.
// It never overwrites: a filename collision within the same second gets
// a counter suffix. A failed save must abort the caller's mutation.
func (s *Store) Save(content, label string) (Ref, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Ref{}, fmt.Errorf("creating backup directory %s: %w", s.dir, err)
	}

	stamp := s.now().Format(timestampFormat)
	name := label + "_" + stamp + snapshotExt
	path := filepath.Join(s.dir, name)
	for n := 2; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s_%s_%d%s", label, stamp, n, snapshotExt)
		path = filepath.Join(s.dir, name)
	}

	// Write via temp file and rename so a crash never leaves a partial
	// snapshot behind.
	tmp, err := os.CreateTemp(s.dir, ".backup-*.tmp")
	if err != nil {
		return Ref{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.WriteString(content)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("writing backup: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("renaming temp file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Ref{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Ref{Name: name, Label: label, CreatedAt: info.ModTime(), Size: info.Size()}, nil
}

// List returns all snapshots, newest first by modification time.
// A missing directory yields an empty list, not an error.
func (s *Store) List() ([]Ref, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory %s: %w", s.dir, err)
	}

	var refs []Ref
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		refs = append(refs, Ref{
			Name:      entry.Name(),
			Label:     labelOf(entry.Name()),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].CreatedAt.After(refs[j].CreatedAt)
	})
	return refs, nil
}

// Latest returns the newest snapshot whose label starts with prefix.
// An empty prefix matches every snapshot.
func (s *Store) Latest(prefix string) (Ref, error) {
	refs, err := s.List()
	if err != nil {
		return Ref{}, err
	}
	for _, ref := range refs {
		if strings.HasPrefix(ref.Label, prefix) {
			return ref, nil
		}
	}
	return Ref{}, fmt.Errorf("no backup with label prefix %q in %s", prefix, s.dir)
}

// Restore reads back the content of a snapshot by name.
func (s *Store) Restore(name string) (string, error) {
	// Names come from List output or the operator; refuse path escapes.
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid backup name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("reading backup %s: %w", name, err)
	}
	return string(data), nil
}

// labelOf strips the trailing "_<date>_<time>[_<n>].html" from a
// snapshot filename, leaving the semantic label. The date and time
// segments have fixed widths (8 and 6 digits), so labels that end in a
// digit segment of their own survive intact.
func labelOf(name string) string {
	base := strings.TrimSuffix(name, snapshotExt)
	parts := strings.Split(base, "_")
	if n := len(parts); n >= 4 && isDigits(parts[n-1]) &&
		len(parts[n-2]) == 6 && isDigits(parts[n-2]) &&
		len(parts[n-3]) == 8 && isDigits(parts[n-3]) {
		// Collision counter after the timestamp.
		parts = parts[:n-1]
	}
	if n := len(parts); n >= 3 &&
		len(parts[n-1]) == 6 && isDigits(parts[n-1]) &&
		len(parts[n-2]) == 8 && isDigits(parts[n-2]) {
		parts = parts[:n-2]
	}
	return strings.Join(parts, "_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
