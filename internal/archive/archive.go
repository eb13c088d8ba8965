package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// stampLayout is UTC time to the millisecond with punctuation stripped.
const stampLayout = "20060102150405.000"

// collisionRetries bounds how many suffixed names Save tries after the plain
// name is taken.
const collisionRetries = 3

// archiveFile is the subset of *os.File that Save writes through.
type archiveFile interface {
	Write(p []byte) (int, error)
	Close() error
}

// Archiver stores uploaded transcripts on local disk under a root directory.
type Archiver struct {
	root string
	now  func() time.Time
	open func(name string) (archiveFile, error)
}

// New creates an archiver rooted at dir. A leading "~/" is expanded.
func New(dir string) *Archiver {
	return &Archiver{
		root: ExpandHome(dir),
		now:  time.Now,
		open: createExclusive,
	}
}

// Root returns the absolute directory archives are written under.
func (a *Archiver) Root() string {
	return a.root
}

// Save writes content to <project>/<owner>/<stamp>_<name> and returns that
// path relative to the archive root. If that name already exists a short
// random suffix is added to the stamp; an existing archive is never
// overwritten. A failed write leaves no file behind.
func (a *Archiver) Save(ctx context.Context, projectID, ownerID uuid.UUID, fileName string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(projectID.String(), ownerID.String())
	if err := os.MkdirAll(filepath.Join(a.root, dir), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	stamp := Stamp(a.now())
	name := SanitizeFileName(fileName)

	rel := filepath.Join(dir, stamp+"_"+name)
	f, err := a.open(filepath.Join(a.root, rel))
	for i := 0; errors.Is(err, fs.ErrExist) && i < collisionRetries; i++ {
		rel = filepath.Join(dir, stamp+"-"+uuid.NewString()[:8]+"_"+name)
		f, err = a.open(filepath.Join(a.root, rel))
	}
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}

	full := filepath.Join(a.root, rel)
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close archive file: %w", err)
	}

	return rel, nil
}

func createExclusive(name string) (archiveFile, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Stamp formats t as a punctuation-free UTC millisecond timestamp.
func Stamp(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format(stampLayout), ".", "")
}

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with '_'.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, name)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
