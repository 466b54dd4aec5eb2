package repository

import (
	"context"

	"tender-analysis-service/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
