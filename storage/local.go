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
)

// LocalURLPrefix is the route the local bucket directory is served under.
const LocalURLPrefix = "/uploads"

// LocalBucket stores objects below a directory on disk.
type LocalBucket struct {
	dir       string
	urlPrefix string
}

func NewLocalBucket(dir, urlPrefix string) (*LocalBucket, error) {
	if dir == "" {
		return nil, errors.New("local bucket: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local bucket: %w", err)
	}
	return &LocalBucket{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (b *LocalBucket) Dir() string { return b.dir }

func (b *LocalBucket) Upload(ctx context.Context, objectPath string, r io.Reader, _ string) (string, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(b.dir, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("local bucket: %w", err)
	}
	// O_EXCL: an existing object is never overwritten
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local bucket: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("local bucket: write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("local bucket: %w", err)
	}
	return b.urlPrefix + "/" + p, nil
}

func (b *LocalBucket) Remove(_ context.Context, objectPath string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(b.dir, filepath.FromSlash(p)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local bucket: %w", err)
	}
	return nil
}

func (b *LocalBucket) PathOf(publicURL string) (string, bool) {
	rest, ok := strings.CutPrefix(publicURL, b.urlPrefix+"/")
	if !ok {
		return "", false
	}
	p, err := cleanPath(rest)
	if err != nil {
		return "", false
	}
	return p, true
}

func (b *LocalBucket) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	err := filepath.WalkDir(b.dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.dir, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, Object{Path: rel, Updated: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local bucket: list %s: %w", prefix, err)
	}
	return out, nil
}
