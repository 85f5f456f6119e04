// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the subset of *s3v2.Client an S3Snapshot needs.
type s3API interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// S3Options hold optional overrides for AWS config loading. The zero value
// inherits the shell's AWS setup (AWS_PROFILE, shared config, env, IMDS).
type S3Options struct {
	Profile  string
	Region   string
	Endpoint string
	// PathStyle is needed by most S3-compatible servers such as MinIO.
	PathStyle bool
}

// S3Snapshot keeps the snapshot in object <Prefix><Key>.json of Bucket.
type S3Snapshot struct {
	client s3API
	Bucket string
	Prefix string
	Key    string
}

// NewS3Snapshot loads AWS config and returns a snapshot in bucket.
func NewS3Snapshot(ctx context.Context, bucket, prefix, key string, o S3Options) (*S3Snapshot, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.Profile))
	}
	if o.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3v2.NewFromConfig(cfg, func(so *s3v2.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = awsv2.String(o.Endpoint)
		}
		so.UsePathStyle = o.PathStyle
	})

	return newS3Snapshot(client, bucket, prefix, key), nil
}

func newS3Snapshot(client s3API, bucket, prefix, key string) *S3Snapshot {
	if key == "" {
		key = DefaultKey
	}
	return &S3Snapshot{client: client, Bucket: bucket, Prefix: prefix, Key: key}
}

func (s *S3Snapshot) objectKey() string {
	return s.Prefix + s.Key + ".json"
}

func (s *S3Snapshot) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.objectKey()),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, s.objectKey(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.Bucket, s.objectKey(), err)
	}
	log.Debugf("s3: read %d bytes from s3://%s/%s", len(data), s.Bucket, s.objectKey())
	return data, nil
}

func (s *S3Snapshot) Save(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.Bucket),
		Key:         awsv2.String(s.objectKey()),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, s.objectKey(), err)
	}
	return nil
}

func (s *S3Snapshot) Close() error { return nil }

func (s *S3Snapshot) String() string {
	return fmt.Sprintf("s3 s3://%s/%s", s.Bucket, s.objectKey())
}
