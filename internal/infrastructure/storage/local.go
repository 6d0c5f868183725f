package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes avatars into a directory served at URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

func NewLocal(dir, urlPrefix string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Save writes to a temp file first and renames it into place, so a failed
// copy never leaves a partial avatar behind.
func (l *Local) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	tmp, err := os.CreateTemp(l.Dir, ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.Dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (l *Local) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(l.Dir, filepath.Base(name)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *Local) URL(name string) string {
	return l.URLPrefix + "/" + name
}

var _ AvatarStorage = (*Local)(nil)
