package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, email, username, full_name, hashed_password, is_active, is_admin, created_at, updated_at`

func (r *PostgresUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (email, username, full_name, hashed_password, is_active, is_admin)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at, updated_at;`
	row, err := pickRow(ctx, r.pool, tx, q, u.Email, u.Username, u.FullName, u.HashedPassword, u.IsActive, u.IsAdmin)
	if err != nil {
		return err
	}
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+userColumns+` FROM users WHERE email=$1;`, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *PostgresUserRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var createdAt, updatedAt time.Time
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.HashedPassword, &u.IsActive, &u.IsAdmin, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return &u, nil
}
