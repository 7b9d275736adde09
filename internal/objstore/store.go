// Package objstore persists approval attachments. Drivers cover local
// disk, S3-compatible services, and Alibaba OSS; the service layer only
// sees the Store interface and stores returned URLs on the approval.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	SignedURL(ctx context.Context, key, method string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Config struct {
	Driver       string        `mapstructure:"driver"`
	Bucket       string        `mapstructure:"bucket"`
	Region       string        `mapstructure:"region"`
	Endpoint     string        `mapstructure:"endpoint"`
	AccessKey    string        `mapstructure:"access-key"`
	SecretKey    string        `mapstructure:"secret-key"`
	PathStyle    bool          `mapstructure:"path-style"`
	BaseDir      string        `mapstructure:"base-dir"`
	SignedURLTTL time.Duration `mapstructure:"signed-url-ttl"`
}

// Open builds the configured driver.
func Open(ctx context.Context, c Config) (Store, error) {
	if c.SignedURLTTL <= 0 {
		c.SignedURLTTL = 15 * time.Minute
	}
	switch strings.ToLower(c.Driver) {
	case "", "file":
		if c.BaseDir == "" {
			c.BaseDir = "data/attachments"
		}
		return openFile(c)
	case "s3":
		if c.Bucket == "" {
			return nil, errors.New("bucket required for s3 driver")
		}
		return openS3(ctx, c)
	case "oss":
		if c.Bucket == "" || c.Endpoint == "" || c.AccessKey == "" || c.SecretKey == "" {
			return nil, errors.New("bucket, endpoint and credentials required for oss driver")
		}
		return openOSS(c)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}

// AttachmentKey lays out attachment objects by org and approval. The
// random segment keeps concurrent uploads of the same filename apart.
func AttachmentKey(orgID, approvalID, filename string) string {
	base := sanitizeKey(path.Base(filename))
	if base == "" {
		base = "attachment"
	}
	return path.Join(orgID, approvalID, uuid.NewString()[:8]+"-"+base)
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

// buildS3URL constructs a gocloud s3 URL with query params.
func buildS3URL(c Config) string {
	u := url.URL{Scheme: "s3", Host: c.Bucket}
	q := url.Values{}
	if c.Region != "" {
		q.Set("region", c.Region)
	}
	if c.Endpoint != "" {
		q.Set("endpoint", c.Endpoint)
	}
	if c.PathStyle {
		q.Set("s3ForcePathStyle", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
