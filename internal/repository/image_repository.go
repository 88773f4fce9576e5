package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ACC-Aniket-Sakpal/s3-with-cloudfront/internal/models"
)

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

// Insert writes one catalog row. id and created_at are assigned by the
// datastore.
func (r *ImageRepository) Insert(ctx context.Context, filename, storageKey, deliveryURL string) (models.Image, error) {
	const query = `
		INSERT INTO images (filename, s3_key, cf_url, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	image := models.Image{
		Filename:    filename,
		StorageKey:  storageKey,
		DeliveryURL: deliveryURL,
	}
	if err := r.pool.QueryRow(ctx, query, filename, storageKey, deliveryURL).Scan(&image.ID, &image.CreatedAt); err != nil {
		return models.Image{}, err
	}
	return image, nil
}

// List returns every catalog row, most recent first.
func (r *ImageRepository) List(ctx context.Context) ([]models.Image, error) {
	const query = `
		SELECT id, filename, s3_key, cf_url, created_at
		FROM images
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		if err := rows.Scan(
			&image.ID,
			&image.Filename,
			&image.StorageKey,
			&image.DeliveryURL,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM images`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
