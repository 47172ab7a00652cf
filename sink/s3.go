package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by [S3].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads podcast.wav and manifest.json under <prefix>/<run id>/.
type S3 struct {
	client S3Client
	bucket string
	prefix string
}

var _ Sink = (*S3)(nil)

// NewS3 creates an S3 sink. The client should be pre-configured
// (credentials, region, endpoint).
func NewS3(client S3Client, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an [s3.Client] from static credentials. An endpoint
// selects an S3-compatible store (MinIO, R2) with path-style addressing.
func NewS3Client(region, endpoint, accessKey, secretKey string) *s3.Client {
	opts := s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: accessKey, SecretAccessKey: secretKey, Source: "podcast-pipeline"}, nil
		})),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func (s *S3) key(runID, name string) string {
	if s.prefix == "" {
		return path.Join(runID, name)
	}
	return path.Join(s.prefix, runID, name)
}

// Put implements Sink and returns the s3:// URI of the WAV object.
func (s *S3) Put(ctx context.Context, a Artifact) (string, error) {
	runID := a.Result.RunID
	wavKey := s.key(runID, "podcast.wav")
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(wavKey),
		Body:        bytes.NewReader(a.Result.File.Bytes()),
		ContentType: aws.String("audio/wav"),
	}); err != nil {
		return "", uploadError(wavKey, err)
	}

	manifest, err := json.MarshalIndent(NewManifest(a), "", "  ")
	if err != nil {
		return "", err
	}
	manifestKey := s.key(runID, "manifest.json")
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(manifest),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", uploadError(manifestKey, err)
	}
	return "s3://" + s.bucket + "/" + wavKey, nil
}

// uploadError adds the S3 error code, when there is one, to the message.
func uploadError(key string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("sink: upload %s (%s): %w", key, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("sink: upload %s: %w", key, err)
}
