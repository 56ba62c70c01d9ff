package minio

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/groupfeed/internal/model"
)

const (
	picturePrefix = "profile"
	presignExpiry = time.Hour
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return w.c.PresignedGetObject(ctx, bucketName, objectName, expires, reqParams)
}

var _ model.PictureStore = (*Client)(nil)

// Client resolves profile picture keys stored under profile/ in a bucket.
type Client struct {
	api           minioAPI
	bucket        string
	publicBaseURL string
}

// NewClient creates a new MinIO picture store using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket string) (*Client, error) {
	return NewClientWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
	}

	err := c.ensureBucketExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

// NewPublicClient creates a picture store that builds URLs from a public base
// URL without contacting MinIO.
func NewPublicClient(publicBaseURL string) *Client {
	return &Client{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// ensureBucketExists creates the bucket if it doesn't exist
func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// PictureURL returns a URL for the picture stored under key. An empty key or
// a missing object yields an empty URL so the caller can fall back to an
// identicon.
func (c *Client) PictureURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + path.Join(picturePrefix, key), nil
	}

	object := path.Join(picturePrefix, key)

	ok, err := c.exists(ctx, object)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	u, err := c.api.PresignedGetObject(ctx, c.bucket, object, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}

	return u.String(), nil
}

func (c *Client) exists(ctx context.Context, object string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.bucket, object, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}
