package transcribe

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scratch hands out per-request temporary paths under one root directory.
// Names carry a millisecond timestamp plus a short random id so concurrent
// requests never share a path.
type Scratch struct {
	root string
	now  func() time.Time
}

func NewScratch(root string) *Scratch {
	if root == "" {
		root = os.TempDir()
	}
	return &Scratch{root: root, now: time.Now}
}

func (s *Scratch) stamp() string {
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), uuid.NewString()[:8])
}

// Persist copies body into <root>/<stamp>-<name> and returns the path and the
// number of bytes written. A partially written file is removed on error.
func (s *Scratch) Persist(filename string, body io.Reader) (string, int64, error) {
	path := filepath.Join(s.root, s.stamp()+"-"+safeName(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("create scratch file: %w", err)
	}

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		Remove(path)
		return "", 0, fmt.Errorf("write scratch file: %w", err)
	}
	return path, n, nil
}

// MkdirChunks creates a fresh <root>/chunks-<stamp> directory.
func (s *Scratch) MkdirChunks() (string, error) {
	dir := filepath.Join(s.root, "chunks-"+s.stamp())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("create segment dir: %w", err)
	}
	return dir, nil
}

// Remove deletes path (file or directory tree). Missing paths are fine;
// other failures are logged and swallowed.
func Remove(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove scratch path", "path", path, "error", err)
	}
}

func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "audio"
	}
	return name
}
