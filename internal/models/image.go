package models

import "time"

// Image is one catalog row. StorageKey is the object key in the bucket;
// DeliveryURL is the public CDN URL derived from it at upload time.
type Image struct {
	ID          int64
	Filename    string
	StorageKey  string
	DeliveryURL string
	CreatedAt   time.Time
}
