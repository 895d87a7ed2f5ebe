package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com/"

type FirebaseOptions struct {
	CredentialsJSON string
	ProjectID       string
	Bucket          string
}

// FirebaseBucket stores objects in the Firebase project's Cloud Storage
// bucket. Objects are expected to be publicly readable.
type FirebaseBucket struct {
	handle *gcs.BucketHandle
	name   string
}

func NewFirebaseBucket(ctx context.Context, opts FirebaseOptions) (*FirebaseBucket, error) {
	if opts.Bucket == "" {
		return nil, errors.New("firebase bucket: bucket name is required")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     opts.ProjectID,
		StorageBucket: opts.Bucket,
	}, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: init app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: storage client: %w", err)
	}
	handle, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: %w", err)
	}
	return &FirebaseBucket{handle: handle, name: opts.Bucket}, nil
}

func (b *FirebaseBucket) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	p, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	// DoesNotExist keeps an upload from replacing an existing object
	w := b.handle.Object(p).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("firebase bucket: write %s: %w", p, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("firebase bucket: write %s: %w", p, err)
	}
	return b.publicURL(p), nil
}

func (b *FirebaseBucket) Remove(ctx context.Context, objectPath string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	err = b.handle.Object(p).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("firebase bucket: remove %s: %w", p, err)
	}
	return nil
}

func (b *FirebaseBucket) PathOf(publicURL string) (string, bool) {
	rest, ok := strings.CutPrefix(publicURL, gcsPublicHost+b.name+"/")
	if !ok {
		return "", false
	}
	unescaped, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	p, err := cleanPath(unescaped)
	if err != nil {
		return "", false
	}
	return p, true
}

func (b *FirebaseBucket) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	it := b.handle.Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firebase bucket: list %s: %w", prefix, err)
		}
		out = append(out, Object{Path: attrs.Name, Updated: attrs.Updated})
	}
	return out, nil
}

func (b *FirebaseBucket) publicURL(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return gcsPublicHost + b.name + "/" + strings.Join(segs, "/")
}
