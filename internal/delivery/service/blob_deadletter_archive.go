package service

import (
	"context"
	"fmt"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// BlobDeadLetterArchive writes abandoned events to a Go CDK bucket
// (file://, mem:// or s3://) using the same layout as S3DeadLetterArchive.
type BlobDeadLetterArchive struct {
	bucket    *blob.Bucket
	bucketURL string
	prefix    string
	now       func() time.Time
}

// Archive writes events under <prefix>/<course>/<unix>_<uuid>.jsonl.gz.
func (a *BlobDeadLetterArchive) Archive(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	if len(events) == 0 {
		return nil
	}

	body, err := encodeDeadLetters(events)
	if err != nil {
		return fmt.Errorf("failed to encode dead letters: %w", err)
	}

	key := deadLetterKey(a.prefix, courseID, a.now())
	err = a.bucket.WriteAll(ctx, key, body, &blob.WriterOptions{
		ContentType:     "application/x-ndjson",
		ContentEncoding: "gzip",
	})
	if err != nil {
		return fmt.Errorf("failed to write dead letters to %s %s: %w", a.bucketURL, key, err)
	}
	return nil
}

// Close releases the underlying bucket.
func (a *BlobDeadLetterArchive) Close() error {
	return a.bucket.Close()
}

// OpenBlobDeadLetterArchive opens bucketURL and returns an archive writing under prefix.
func OpenBlobDeadLetterArchive(ctx context.Context, bucketURL, prefix string) (*BlobDeadLetterArchive, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter bucket %s: %w", bucketURL, err)
	}
	return NewBlobDeadLetterArchive(bucket, bucketURL, prefix), nil
}

// NewBlobDeadLetterArchive creates an archive over an already opened bucket.
func NewBlobDeadLetterArchive(bucket *blob.Bucket, bucketURL, prefix string) *BlobDeadLetterArchive {
	return &BlobDeadLetterArchive{
		bucket:    bucket,
		bucketURL: bucketURL,
		prefix:    prefix,
		now:       time.Now,
	}
}
