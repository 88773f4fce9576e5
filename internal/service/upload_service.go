package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/models"
)

// URLSigner mints a time-limited write URL for a storage key. Implemented by
// storage.ObjectStore.
type URLSigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*url.URL, error)
}

// ImageCatalog is the catalog table surface the service needs. Implemented by
// repository.ImageRepository.
type ImageCatalog interface {
	Insert(ctx context.Context, filename, storageKey, deliveryURL string) (models.Image, error)
	List(ctx context.Context) ([]models.Image, error)
}

type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	Image models.Image
	URL   string
}

type UploadService struct {
	catalog  ImageCatalog
	signer   URLSigner
	client   *http.Client
	cfDomain string
	log      zerolog.Logger
	now      func() time.Time
}

func NewUploadService(catalog ImageCatalog, signer URLSigner, client *http.Client, cfDomain string, log zerolog.Logger) *UploadService {
	if client == nil {
		client = http.DefaultClient
	}
	return &UploadService{
		catalog:  catalog,
		signer:   signer,
		client:   client,
		cfDomain: cfDomain,
		log:      log,
		now:      time.Now,
	}
}

// Upload runs the three-step flow: presign, PUT to the signed URL, insert the
// catalog row. The PUT and the insert are not transactional; an insert
// failure leaves the stored object in place with no row pointing at it.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	key := fmt.Sprintf("%d_%s", s.now().UnixMilli(), input.Filename)

	signed, err := s.signer.PresignPut(ctx, key, input.ContentType)
	if err != nil {
		return UploadResult{}, &UpstreamError{Op: "presign", Err: err}
	}

	if err := s.putObject(ctx, signed, input); err != nil {
		return UploadResult{}, &UpstreamError{Op: "put object", Err: err}
	}

	deliveryURL := s.buildDeliveryURL(key)

	image, err := s.catalog.Insert(ctx, input.Filename, key, deliveryURL)
	if err != nil {
		// The object is already in storage at this point; it stays there.
		return UploadResult{}, &UpstreamError{Op: "insert catalog row", Err: err}
	}

	s.log.Debug().
		Str("key", key).
		Int("size", len(input.Data)).
		Msg("image uploaded")

	return UploadResult{
		Image: image,
		URL:   deliveryURL,
	}, nil
}

func (s *UploadService) List(ctx context.Context) ([]models.Image, error) {
	images, err := s.catalog.List(ctx)
	if err != nil {
		return nil, &UpstreamError{Op: "list catalog", Err: err}
	}
	return images, nil
}

// putObject sends the buffered file to the presigned URL. The signature
// covers Content-Type and the ACL, so both headers must match what the URL
// was minted with.
func (s *UploadService) putObject(ctx context.Context, signed *url.URL, input UploadInput) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signed.String(), bytes.NewReader(input.Data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", input.ContentType)
	req.Header.Set("x-amz-acl", "private")
	req.ContentLength = int64(len(input.Data))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *UploadService) buildDeliveryURL(key string) string {
	return strings.TrimSuffix(s.cfDomain, "/") + "/" + key
}
