package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tender-analysis-service/internal/domain"
	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/repository"
	"tender-analysis-service/internal/infra/logging"
	redisinfra "tender-analysis-service/internal/infra/redis"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// UserUseCase exposes registration and credential checks.
type UserUseCase interface {
	Register(ctx context.Context, email, username, fullName, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
}

type userUC struct {
	users   repository.UserRepository
	tm      repository.TransactionManager
	limiter *redisinfra.RateLimiter
	log     *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, limiter *redisinfra.RateLimiter, logger *zerolog.Logger) *userUC {
	compLog := logger.With().Str("component", "UserUC").Logger()
	return &userUC{
		users:   users,
		tm:      tm,
		limiter: limiter,
		log:     &compLog,
	}
}

func (u *userUC) Register(ctx context.Context, email, username, fullName, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	if email == "" || username == "" || len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: string(hash),
		IsActive:       true,
	}

	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		return u.users.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Authenticate")()

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, redisinfra.LoginKey(email), loginAttemptLimit, loginAttemptWindow)
		if err != nil {
			// Redis being down should not lock everyone out.
			u.log.Warn().Err(err).Msg("login rate limiter unavailable")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id int64) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}
