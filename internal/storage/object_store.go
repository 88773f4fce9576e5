package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/config"
)

const aclPrivate = "private"

// ObjectStore wraps an S3-compatible client used only to mint presigned
// write URLs. File bytes never flow through this client; the service PUTs
// them to the signed URL directly.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  newCredentials(cfg),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func newCredentials(cfg config.StorageConfig) *credentials.Credentials {
	if cfg.AccessKey != "" {
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	// No explicit keys configured: fall back to the ambient AWS credential
	// chain (env vars, shared config, instance role).
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{},
	})
}

// PresignPut returns a time-limited URL authorizing a single PUT of the given
// key. Content-Type and the private ACL are part of the signature, so the
// upload must send the same headers. This is a pure metadata operation; no
// request leaves the process.
func (s *ObjectStore) PresignPut(ctx context.Context, key, contentType string) (*url.URL, error) {
	extraHeaders := http.Header{}
	extraHeaders.Set("Content-Type", contentType)
	extraHeaders.Set("x-amz-acl", aclPrivate)

	signed, err := s.client.PresignHeader(ctx, http.MethodPut, s.cfg.Bucket, key, s.cfg.PresignTTL, url.Values{}, extraHeaders)
	if err != nil {
		return nil, fmt.Errorf("presign put %q: %w", key, err)
	}
	return signed, nil
}
