// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage names project assets and talks to the object store that
// holds them. Two drivers share the BlobStore interface: an S3 client built
// on the AWS SDK v2 and a MinIO client.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// BlobStore is an object store addressed by bucket and key.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, bucket, key string) error
	// DeletePrefix removes every object under prefix and returns how many
	// were removed.
	DeletePrefix(ctx context.Context, bucket, prefix string) (int, error)
	// PublicURL returns the URL a browser can fetch the object from.
	PublicURL(bucket, key string) string
}

// Options configures New.
type Options struct {
	Driver    string // "s3" or "minio"
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
	UseSSL    bool
}

// New builds the BlobStore selected by opts.Driver. Returns (nil, nil) if
// the endpoint or credentials are empty, allowing the app to start without
// storage.
func New(opts Options) (BlobStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, nil
	}

	switch opts.Driver {
	case "", "s3":
		return NewS3Store(opts.Endpoint, opts.Region, opts.AccessKey, opts.SecretKey, opts.PublicURL), nil
	case "minio":
		return NewMinioStore(opts.Endpoint, opts.Region, opts.AccessKey, opts.SecretKey, opts.PublicURL, opts.UseSSL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// Resolve turns a stored value into a URL. Absolute URLs pass through;
// internal paths are resolved in bucket. Without a store the path is
// returned unchanged.
func Resolve(store BlobStore, bucket, pathOrURL string) string {
	v := strings.TrimSpace(pathOrURL)
	if v == "" || !IsStoragePath(v) || store == nil {
		return v
	}
	return store.PublicURL(bucket, v)
}

// AvatarURL resolves a profile avatar value. A nil or blank value yields "".
func AvatarURL(store BlobStore, avatar *string) string {
	if avatar == nil {
		return ""
	}
	return Resolve(store, AvatarsBucket, *avatar)
}

// joinURL builds base/bucket/key.
func joinURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(key, "/")
}
