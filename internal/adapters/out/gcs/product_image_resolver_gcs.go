// internal/adapters/out/gcs/product_image_resolver_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ProductImageResolverGCS implements query.ImageURLResolver.
//
// Catalog documents store bare object paths ("products/P1/main.jpg"). Public
// buckets resolve to the storage.googleapis.com URL; private buckets get a
// V4 GET signed URL when a bucket-level signer is available. Absolute URLs
// pass through untouched (legacy documents already hold full URLs).
type ProductImageResolverGCS struct {
	Client *storage.Client
	Bucket string

	// SignedURLExpiry > 0 switches resolution to signed URLs.
	SignedURLExpiry time.Duration
}

func NewProductImageResolverGCS(client *storage.Client, bucket string) *ProductImageResolverGCS {
	return &ProductImageResolverGCS{Client: client, Bucket: bucket}
}

func (r *ProductImageResolverGCS) Resolve(ctx context.Context, objectPath string) (string, error) {
	if r == nil {
		return "", errors.New("product_image_resolver_gcs: resolver is nil")
	}

	obj := strings.TrimSpace(objectPath)
	if obj == "" {
		return "", nil
	}
	if strings.HasPrefix(obj, "http://") || strings.HasPrefix(obj, "https://") {
		return obj, nil
	}
	obj = strings.TrimLeft(obj, "/")

	bucket := strings.TrimSpace(r.Bucket)
	if bucket == "" {
		return "", errors.New("product_image_resolver_gcs: bucket is not configured")
	}

	if r.SignedURLExpiry > 0 {
		if r.Client == nil {
			return "", errors.New("product_image_resolver_gcs: storage client is nil")
		}
		u, err := r.Client.Bucket(bucket).SignedURL(obj, &storage.SignedURLOptions{
			Scheme:  storage.SigningSchemeV4,
			Method:  "GET",
			Expires: time.Now().UTC().Add(r.SignedURLExpiry),
		})
		if err != nil {
			return "", fmt.Errorf("product_image_resolver_gcs: sign failed: %w", err)
		}
		return u, nil
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, obj), nil
}
