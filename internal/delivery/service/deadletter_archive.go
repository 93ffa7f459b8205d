package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
)

// S3PutObjectAPI is the subset of the S3 client used by the archive.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// deadLetterRecord is one JSON line of an archived batch.
type deadLetterRecord struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	AffectedObject  string    `json:"affectedObject"`
	CourseID        string    `json:"courseId"`
	EntityID        string    `json:"entityId"`
	RelatedEntityID *string   `json:"relatedEntityId"`
	CreatedAt       time.Time `json:"createdAt"`
	AttemptCount    int       `json:"attemptCount"`
	LastError       *string   `json:"lastError"`
	AbandonedAt     time.Time `json:"abandonedAt"`
}

// S3DeadLetterArchive uploads abandoned events to S3 as gzip-compressed JSON lines.
type S3DeadLetterArchive struct {
	client S3PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// Archive uploads events under <prefix>/<course>/<unix>_<uuid>.jsonl.gz.
func (a *S3DeadLetterArchive) Archive(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	if len(events) == 0 {
		return nil
	}

	body, err := encodeDeadLetters(events)
	if err != nil {
		return fmt.Errorf("failed to encode dead letters: %w", err)
	}

	key := a.objectKey(courseID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(a.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(body),
		ContentLength:   aws.Int64(int64(len(body))),
		ContentType:     aws.String("application/x-ndjson"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload dead letters to s3://%s/%s: %w", a.bucket, key, err)
	}
	return nil
}

func (a *S3DeadLetterArchive) objectKey(courseID string) string {
	return deadLetterKey(a.prefix, courseID, a.now())
}

// deadLetterKey names an archived batch <prefix>/<course>/<unix>_<uuid>.jsonl.gz.
func deadLetterKey(prefix, courseID string, at time.Time) string {
	name := fmt.Sprintf("%d_%s.jsonl.gz", at.Unix(), uuid.NewString())
	return path.Join(prefix, courseID, name)
}

func encodeDeadLetters(events []*eventDomain.Event) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)

	for _, event := range events {
		record := deadLetterRecord{
			ID:              event.ID.String(),
			Type:            string(event.Type),
			AffectedObject:  string(event.AffectedObject),
			CourseID:        event.CourseID,
			EntityID:        event.EntityID,
			RelatedEntityID: event.RelatedEntityID,
			CreatedAt:       event.CreatedAt.UTC(),
			AttemptCount:    event.AttemptCount,
			LastError:       event.LastError,
			AbandonedAt:     event.UpdatedAt.UTC(),
		}
		if err := enc.Encode(record); err != nil {
			_ = gz.Close()
			return nil, err
		}
	}

	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewS3Client loads the default AWS configuration for region and creates an S3 client.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewS3DeadLetterArchive creates an archive writing to bucket under prefix.
func NewS3DeadLetterArchive(client S3PutObjectAPI, bucket, prefix string) *S3DeadLetterArchive {
	return &S3DeadLetterArchive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// NoOpDeadLetterArchive discards abandoned events; they remain queryable in the event log.
type NoOpDeadLetterArchive struct{}

// Archive does nothing.
func (NoOpDeadLetterArchive) Archive(ctx context.Context, courseID string, events []*eventDomain.Event) error {
	return nil
}

// NewNoOpDeadLetterArchive creates a DeadLetterArchive that discards everything.
func NewNoOpDeadLetterArchive() DeadLetterArchive {
	return NoOpDeadLetterArchive{}
}
