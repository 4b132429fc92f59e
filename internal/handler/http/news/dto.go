// Package news provides HTTP handlers for news-related endpoints.
// It includes handlers for listing, creating, publishing, updating and
// deleting news entries, plus the server-sent-events stream of change
// notifications.
package news

import (
	"time"

	"newswire/internal/domain/entity"
)

// DTO represents the JSON structure for news data transfer.
type DTO struct {
	ID            int64      `json:"id" example:"1"`
	Title         string     `json:"title" example:"リリースのお知らせ"`
	Content       string     `json:"content" example:"本日リリースしました。詳細は..."`
	Author        string     `json:"author" example:"editor"`
	IsPublished   bool       `json:"is_published" example:"false"`
	DatePublished *time.Time `json:"date_published,omitempty" example:"2025-10-26T10:00:00Z"`
}

func toDTO(n *entity.News) DTO {
	return DTO{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		Author:        n.Author,
		IsPublished:   n.IsPublished,
		DatePublished: n.DatePublished,
	}
}
