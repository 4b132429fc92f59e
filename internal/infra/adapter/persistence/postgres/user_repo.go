package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"newswire/internal/domain/entity"
	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

type UserRepo struct {
	db Executor
}

func NewUserRepo(db Executor) repository.UserRepository {
	return &UserRepo{db: db}
}

func (repo *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("find_user", time.Since(start)) }()

	const query = `
SELECT id, username, password
FROM users
WHERE username = $1
LIMIT 1`
	var user entity.User
	err := repo.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByUsername: %w", err)
	}
	return &user, nil
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_user", time.Since(start)) }()

	const query = `
INSERT INTO users (username, password)
VALUES ($1, $2)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, user.Username, user.Password).
		Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateUsername)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
