package objstore

import (
	"context"
	"io"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/s3blob"
)

type s3Store struct {
	bk  *blob.Bucket
	ttl time.Duration
}

func openS3(ctx context.Context, c Config) (Store, error) {
	bk, err := blob.OpenBucket(ctx, buildS3URL(c))
	if err != nil {
		return nil, err
	}
	return &s3Store{bk: bk, ttl: c.SignedURLTTL}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	w, err := s.bk.NewWriter(ctx, sanitizeKey(key), &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *s3Store) SignedURL(ctx context.Context, key, method string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.ttl
	}
	return s.bk.SignedURL(ctx, sanitizeKey(key), &blob.SignedURLOptions{Method: method, Expiry: expiry})
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	return s.bk.Delete(ctx, sanitizeKey(key))
}
