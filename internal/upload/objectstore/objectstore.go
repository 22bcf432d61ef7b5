// Package objectstore stores uploads in an S3 compatible bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// ErrIncomplete is returned when endpoint, credentials or bucket are missing.
	ErrIncomplete = errors.New("object storage configuration incomplete")
	// ErrNoBucket is returned when the bucket does not exist.
	ErrNoBucket = errors.New("bucket does not exist")
	// ErrForeignRef is returned for references that do not belong to this bucket.
	ErrForeignRef = errors.New("reference outside bucket")
)

// Options configures the store.
type Options struct {
	Endpoint  string // host:port or http(s)://host:port
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string // defaults to the endpoint url
}

// Store puts uploads into one bucket.
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New connects to the endpoint and checks that the bucket exists.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, ErrIncomplete
	}

	endpoint, secure, err := normaliseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoBucket, opts.Bucket)
	}

	return &Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: baseURL(opts.PublicURL, endpoint, secure, opts.Bucket),
	}, nil
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, errors.New("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, errParse := url.Parse(raw)
		if errParse != nil {
			return "", false, errParse
		}

		if u.Host == "" {
			return "", false, errors.New("invalid endpoint")
		}

		if u.Path != "" && u.Path != "/" {
			return "", false, errors.New("endpoint must not contain a path")
		}

		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}

func baseURL(publicURL, endpoint string, secure bool, bucket string) string {
	if publicURL == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}

		publicURL = scheme + "://" + endpoint
	}

	return strings.TrimRight(publicURL, "/") + "/" + bucket
}

// Name implements upload.Materializer.
func (s *Store) Name() string {
	return "objectstore"
}

func objectKey(folder, filename string) string {
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	return strings.TrimPrefix(path.Join(path.Clean("/"+folder), name), "/")
}

// Put implements upload.Materializer.
func (s *Store) Put(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := objectKey(folder, fh.Filename)

	_, err = s.client.PutObject(ctx, s.bucket, key, src, fh.Size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *Store) keyOf(ref string) (string, error) {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || key == "" {
		return "", ErrForeignRef
	}

	return key, nil
}

// Remove implements upload.Materializer.
func (s *Store) Remove(ctx context.Context, ref string) error {
	key, err := s.keyOf(ref)
	if err != nil {
		return err
	}

	if err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}

	return nil
}
