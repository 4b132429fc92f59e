package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

type NewsRepo struct {
	db Executor
}

func NewNewsRepo(db Executor) repository.NewsRepository {
	return &NewsRepo{db: db}
}

func (repo *NewsRepo) List(ctx context.Context) ([]*entity.News, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_news", time.Since(start)) }()

	const query = `
SELECT id, title, content, author, is_published, date_published
FROM news
ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	news := make([]*entity.News, 0, 100)
	for rows.Next() {
		var item entity.News
		if err := rows.Scan(&item.ID, &item.Title, &item.Content,
			&item.Author, &item.IsPublished, &item.DatePublished); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		news = append(news, &item)
	}
	return news, rows.Err()
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.News, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_news", time.Since(start)) }()

	const query = `
SELECT id, title, content, author, is_published, date_published
FROM news
WHERE id = $1
LIMIT 1`
	var item entity.News
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.Title, &item.Content,
			&item.Author, &item.IsPublished, &item.DatePublished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &item, nil
}

func (repo *NewsRepo) Create(ctx context.Context, news *entity.News) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_news", time.Since(start)) }()

	const query = `
INSERT INTO news (title, content, author, is_published)
VALUES ($1, $2, $3, FALSE)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		news.Title, news.Content, news.Author,
	).Scan(&news.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	news.IsPublished = false
	news.DatePublished = nil
	return nil
}

func (repo *NewsRepo) UpdateFields(ctx context.Context, id int64, fields repository.UpdateFields) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update_news", time.Since(start)) }()

	const query = `
UPDATE news SET
       title   = $1,
       content = $2,
       author  = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query,
		fields.Title, fields.Content, fields.Author, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateFields: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateFields: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewsRepo) Publish(ctx context.Context, id int64, at time.Time) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("publish_news", time.Since(start)) }()

	const query = `
UPDATE news SET
       is_published   = TRUE,
       date_published = $1
WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Publish: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewsRepo) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete_news", time.Since(start)) }()

	const query = `DELETE FROM news WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewsRepo) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count_news", time.Since(start)) }()

	const query = `SELECT COUNT(*) FROM news`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
