package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Bucket wraps the Cloud Storage bucket images are streamed into.
type Bucket struct {
	handle *storage.BucketHandle
	client *storage.Client
}

// NewBucket creates the storage client and binds it to the configured
// bucket. An empty credentialsPath falls back to application default
// credentials.
func NewBucket(ctx context.Context, bucketName, credentialsPath string) (*Bucket, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("missing google cloud storage bucket")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating storage client: %w", err)
	}

	return &Bucket{
		handle: client.Bucket(bucketName),
		client: client,
	}, nil
}

// Upload streams the reader into the named object. The write is only
// durable once the writer closes cleanly.
func (b *Bucket) Upload(ctx context.Context, objectName string, r io.Reader) error {
	w := b.handle.Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Close releases the underlying storage client.
func (b *Bucket) Close() error {
	return b.client.Close()
}
