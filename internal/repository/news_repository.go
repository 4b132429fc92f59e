// Package repository defines persistence interfaces for the domain entities.
package repository

import (
	"context"
	"time"

	"newswire/internal/domain/entity"
)

// UpdateFields carries the mutable text fields of a news item.
// Publication state (IsPublished, DatePublished) is never touched by an update.
type UpdateFields struct {
	Title   string
	Content string
	Author  string
}

type NewsRepository interface {
	// List retrieves every news row, published or not, ordered by id.
	List(ctx context.Context) ([]*entity.News, error)
	// Get retrieves a news item by id. Returns (nil, nil) if the row does not exist.
	Get(ctx context.Context, id int64) (*entity.News, error)
	// Create inserts a new row with is_published=false and assigns the id.
	Create(ctx context.Context, news *entity.News) error
	// UpdateFields overwrites title, content and author for the row matching id.
	// Returns entity.ErrNotFound if no row was affected.
	UpdateFields(ctx context.Context, id int64, fields UpdateFields) error
	// Publish sets is_published=true and date_published=at for the row matching id.
	// Returns entity.ErrNotFound if no row was affected.
	Publish(ctx context.Context, id int64, at time.Time) error
	// Delete removes the row matching id.
	// Returns entity.ErrNotFound if no row was affected.
	Delete(ctx context.Context, id int64) error
	// Count returns the total number of news rows.
	Count(ctx context.Context) (int64, error)
}
