package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores files on disk under a single root directory.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{root: root}, nil
}

func (l *Local) Root() string {
	return l.root
}

func (l *Local) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	ref := uuid.NewString() + "-" + sanitizeName(name)

	f, err := os.Create(filepath.Join(l.root, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return ref, nil
}

func (l *Local) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if !validRef(ref) {
		return nil, fs.ErrNotExist
	}
	return os.Open(filepath.Join(l.root, ref))
}

func (l *Local) Remove(ctx context.Context, ref string) error {
	if !validRef(ref) {
		return fmt.Errorf("invalid storage ref: %q", ref)
	}
	err := os.Remove(filepath.Join(l.root, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// sanitizeName strips path components and anything outside a conservative
// character set.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func validRef(ref string) bool {
	return ref != "" && !strings.ContainsAny(ref, `/\`) && ref != "." && ref != ".."
}
