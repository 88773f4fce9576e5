package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/config"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/models"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/service"
)

type stubSigner struct {
	base  string
	err   error
	calls int
}

func (s *stubSigner) PresignPut(_ context.Context, key, _ string) (*url.URL, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return url.Parse(s.base + "/" + key)
}

type stubCatalog struct {
	rows      []models.Image
	listErr   error
	insertErr error
	inserts   int
}

func (s *stubCatalog) Insert(_ context.Context, filename, storageKey, deliveryURL string) (models.Image, error) {
	s.inserts++
	if s.insertErr != nil {
		return models.Image{}, s.insertErr
	}
	return models.Image{
		ID:          int64(s.inserts),
		Filename:    filename,
		StorageKey:  storageKey,
		DeliveryURL: deliveryURL,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *stubCatalog) List(_ context.Context) ([]models.Image, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func newTestRouter(t *testing.T, catalog *stubCatalog, signer *stubSigner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploads := service.NewUploadService(catalog, signer, &http.Client{}, "https://cdn.example.com", zerolog.Nop())
	h := NewHandlerSet(zerolog.Nop(), nil, uploads, &config.AppConfig{})

	engine := gin.New()
	h.Register(&engine.RouterGroup)
	return engine
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAddImageMissingFile(t *testing.T) {
	catalog := &stubCatalog{}
	signer := &stubSigner{}
	router := newTestRouter(t, catalog, signer)

	req := httptest.NewRequest(http.MethodPost, "/add-image", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Image file is required"}`, rec.Body.String())

	// Rejected before any external call.
	assert.Zero(t, signer.calls)
	assert.Zero(t, catalog.inserts)
}

func TestAddImageSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	catalog := &stubCatalog{}
	signer := &stubSigner{base: upstream.URL}
	router := newTestRouter(t, catalog, signer)

	body, contentType := multipartUpload(t, "image", "photo.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/add-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string `json:"message"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Image uploaded successfully via presigned URL", resp.Message)
	assert.True(t, strings.HasPrefix(resp.ImageURL, "https://cdn.example.com/"))
	assert.True(t, strings.HasSuffix(resp.ImageURL, "_photo.png"))
	assert.Equal(t, 1, catalog.inserts)
}

func TestAddImageUpstreamFailureReturnsFixedBody(t *testing.T) {
	catalog := &stubCatalog{}
	signer := &stubSigner{err: errors.New("signing denied")}
	router := newTestRouter(t, catalog, signer)

	body, contentType := multipartUpload(t, "image", "photo.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/add-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Upload via presigned URL failed"}`, rec.Body.String())
	assert.Zero(t, catalog.inserts)
}

func TestListImagesDescendingOrder(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	catalog := &stubCatalog{rows: []models.Image{
		{ID: 3, Filename: "c.png", DeliveryURL: "https://cdn.example.com/3_c.png", CreatedAt: t3},
		{ID: 2, Filename: "b.png", DeliveryURL: "https://cdn.example.com/2_b.png", CreatedAt: t2},
		{ID: 1, Filename: "a.png", DeliveryURL: "https://cdn.example.com/1_a.png", CreatedAt: t1},
	}}
	router := newTestRouter(t, catalog, &stubSigner{})

	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		ID        int64     `json:"id"`
		Filename  string    `json:"filename"`
		CFURL     string    `json:"cf_url"`
		CreatedAt time.Time `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)

	assert.Equal(t, []time.Time{t3, t2, t1}, []time.Time{items[0].CreatedAt, items[1].CreatedAt, items[2].CreatedAt})
	assert.Equal(t, "https://cdn.example.com/3_c.png", items[0].CFURL)
	assert.Equal(t, "c.png", items[0].Filename)
}

func TestListImagesEmptyCatalog(t *testing.T) {
	router := newTestRouter(t, &stubCatalog{}, &stubSigner{})

	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListImagesDatastoreFailure(t *testing.T) {
	catalog := &stubCatalog{listErr: errors.New("connection refused")}
	router := newTestRouter(t, catalog, &stubSigner{})

	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch images"}`, rec.Body.String())
}
