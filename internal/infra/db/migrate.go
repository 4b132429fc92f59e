package db

import "database/sql"

// MigrateUp creates the news and users tables and their indexes.
// Statements are idempotent so the server can run them at every boot.
func MigrateUp(pool *sql.DB) error {
	if _, err := pool.Exec(`
CREATE TABLE IF NOT EXISTS news (
    id             SERIAL PRIMARY KEY,
    title          TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL DEFAULT '',
    author         TEXT NOT NULL DEFAULT '',
    is_published   BOOLEAN NOT NULL DEFAULT FALSE,
    date_published TIMESTAMPTZ
)`); err != nil {
		return err
	}

	if _, err := pool.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id       SERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
)`); err != nil {
		return err
	}

	indexes := []string{
		// 公開済みニュースの絞り込み用
		`CREATE INDEX IF NOT EXISTS idx_news_is_published ON news(is_published) WHERE is_published = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_news_date_published ON news(date_published DESC)`,
	}
	for _, idx := range indexes {
		if _, err := pool.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
