// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore is a BlobStore backed by a MinIO server.
type MinioStore struct {
	client    *minio.Client
	baseURL   string
	publicURL string
}

// NewMinioStore connects to a MinIO endpoint. The endpoint may be given as
// host:port or as a URL; the scheme, if any, is stripped.
func NewMinioStore(endpoint, region, accessKey, secretKey, publicURL string, useSSL bool) (*MinioStore, error) {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinioStore{
		client:    client,
		baseURL:   scheme + "://" + host,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object in the specified bucket.
func (m *MinioStore) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object from the specified bucket.
func (m *MinioStore) Delete(ctx context.Context, bucket, key string) error {
	if err := m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// DeletePrefix removes every object under prefix one by one.
func (m *MinioStore) DeletePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	removed := 0
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return removed, fmt.Errorf("minio list %s/%s: %w", bucket, prefix, obj.Err)
		}
		if err := m.client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("minio delete %s/%s: %w", bucket, obj.Key, err)
		}
		removed++
	}
	return removed, nil
}

// PublicURL returns the public URL prefix when set, otherwise the
// path-style URL on the server.
func (m *MinioStore) PublicURL(bucket, key string) string {
	if m.publicURL != "" {
		return joinURL(m.publicURL, bucket, key)
	}
	return joinURL(m.baseURL, bucket, key)
}
