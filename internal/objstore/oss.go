package objstore

import (
	"context"
	"fmt"
	"io"
	"time"

	oss "github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStore struct {
	bk  *oss.Bucket
	ttl time.Duration
}

func openOSS(c Config) (Store, error) {
	cli, err := oss.New(c.Endpoint, c.AccessKey, c.SecretKey)
	if err != nil {
		return nil, err
	}
	bk, err := cli.Bucket(c.Bucket)
	if err != nil {
		return nil, err
	}
	return &ossStore{bk: bk, ttl: c.SignedURLTTL}, nil
}

func (s *ossStore) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	var opts []oss.Option
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	return s.bk.PutObject(sanitizeKey(key), r, opts...)
}

func (s *ossStore) SignedURL(_ context.Context, key, method string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = s.ttl
	}
	var httpMethod oss.HTTPMethod
	switch method {
	case "PUT":
		httpMethod = oss.HTTPPut
	case "DELETE":
		httpMethod = oss.HTTPDelete
	case "GET", "":
		httpMethod = oss.HTTPGet
	default:
		return "", fmt.Errorf("unsupported method: %s", method)
	}
	return s.bk.SignURL(sanitizeKey(key), httpMethod, int64(expiry/time.Second))
}

func (s *ossStore) Delete(_ context.Context, key string) error {
	return s.bk.DeleteObject(sanitizeKey(key))
}
