// Package storage keeps product images in an object bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductPrefix is the folder product images are uploaded to.
const ProductPrefix = "products/"

var ErrInvalidPath = errors.New("invalid object path")

// Object is a stored file as reported by List.
type Object struct {
	Path    string
	Updated time.Time
}

// Bucket is an object store reachable over public URLs.
type Bucket interface {
	// Upload writes r at objectPath and returns its public URL.
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
	// Remove deletes objectPath. Removing a missing object is not an error.
	Remove(ctx context.Context, objectPath string) error
	// PathOf maps a public URL back to an object path. ok is false for URLs
	// that do not point into this bucket.
	PathOf(publicURL string) (objectPath string, ok bool)
	List(ctx context.Context, prefix string) ([]Object, error)
}

// ProductImagePath names an upload after the time it happened plus a random
// suffix, keeping the extension of the original file name.
func ProductImagePath(now time.Time, filename string) string {
	name := fmt.Sprintf("%s%d-%s", ProductPrefix, now.UnixMilli(), uuid.NewString()[:8])
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	c := path.Clean(p)
	if c != p || c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return c, nil
}

// New selects a bucket implementation by driver name.
func New(ctx context.Context, driver string, opts Options) (Bucket, error) {
	switch driver {
	case "", "local":
		return NewLocalBucket(opts.Dir, opts.PublicBaseURL+LocalURLPrefix)
	case "firebase":
		return NewFirebaseBucket(ctx, FirebaseOptions{
			CredentialsJSON: opts.FirebaseCredentialsJSON,
			ProjectID:       opts.FirebaseProjectID,
			Bucket:          opts.FirebaseBucket,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

type Options struct {
	Dir                     string
	PublicBaseURL           string
	FirebaseCredentialsJSON string
	FirebaseProjectID       string
	FirebaseBucket          string
}
