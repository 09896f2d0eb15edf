package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore copies documents into the directory served under BaseURL+Prefix.
type LocalStore struct {
	Dir     string
	BaseURL string
	Prefix  string
}

func NewLocalStore(dir, baseURL, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}
	return &LocalStore{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Prefix:  "/" + strings.Trim(prefix, "/"),
	}, nil
}

// Save copies src to Dir/name and returns its public URL.
func (s *LocalStore) Save(ctx context.Context, src, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// Only the base name is honoured so callers cannot escape Dir.
	name = filepath.Base(name)

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	dst := filepath.Join(s.Dir, name)
	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}

	return s.BaseURL + s.Prefix + "/" + url.PathEscape(name), nil
}
