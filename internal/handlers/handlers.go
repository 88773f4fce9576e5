package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/config"
	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/service"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	uploads *service.UploadService
	db      *pgxpool.Pool
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, uploads *service.UploadService, cfg *config.AppConfig) HandlerSet {
	return HandlerSet{
		log:     log,
		cfg:     cfg,
		uploads: uploads,
		db:      db,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.POST("/add-image", h.AddImage)
	router.GET("/images", h.ListImages)
}
