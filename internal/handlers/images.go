package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/service"
)

// Fixed response texts. External callers depend on these exact strings.
const (
	msgUploaded     = "Image uploaded successfully via presigned URL"
	errFileRequired = "Image file is required"
	errUploadFailed = "Upload via presigned URL failed"
	errListFailed   = "Failed to fetch images"
)

type imageResponse struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	CFURL     string    `json:"cf_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h HandlerSet) AddImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.renderUploadError(c, service.ErrFileRequired)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderUploadError(c, &service.UpstreamError{Op: "read upload", Err: err})
		return
	}

	result, err := h.uploads.Upload(c.Request.Context(), service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.renderUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  msgUploaded,
		"imageUrl": result.URL,
	})
}

func (h HandlerSet) ListImages(c *gin.Context) {
	images, err := h.uploads.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list images failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errListFailed})
		return
	}

	items := make([]imageResponse, 0, len(images))
	for _, img := range images {
		items = append(items, imageResponse{
			ID:        img.ID,
			Filename:  img.Filename,
			CFURL:     img.DeliveryURL,
			CreatedAt: img.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

// renderUploadError maps the internal error taxonomy onto the two external
// response shapes. Upstream causes are logged, never surfaced.
func (h HandlerSet) renderUploadError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrFileRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFileRequired})
		return
	}

	h.log.Error().Err(err).Msg("upload failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": errUploadFailed})
}
