// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store is a BlobStore backed by an S3-compatible endpoint with
// path-style addressing (required by CEPH/Hetzner).
type S3Store struct {
	s3        *s3.Client
	endpoint  string
	publicURL string // optional CDN/direct URL prefix
}

// NewS3Store creates an S3 client with static credentials.
func NewS3Store(endpoint, region, accessKey, secretKey, publicURL string) *S3Store {
	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3Store{
		s3:        client,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores an object with a public-read ACL; every project asset and
// avatar is served directly to browsers.
func (c *S3Store) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object from the specified bucket.
func (c *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// DeletePrefix lists the prefix page by page and batch-deletes each page.
func (c *S3Store) DeletePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	removed := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("s3 list %s/%s: %w", bucket, prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, s3types.ObjectIdentifier{Key: obj.Key})
		}
		_, err = c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return removed, fmt.Errorf("s3 delete prefix %s/%s: %w", bucket, prefix, err)
		}
		removed += len(ids)
	}
	return removed, nil
}

// PublicURL uses the configured public URL if set, otherwise builds a
// path-style URL on the endpoint.
func (c *S3Store) PublicURL(bucket, key string) string {
	if c.publicURL != "" {
		return joinURL(c.publicURL, bucket, key)
	}
	return joinURL(c.endpoint, bucket, key)
}
