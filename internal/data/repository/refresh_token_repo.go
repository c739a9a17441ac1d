package repository

import (
	"context"
	"fmt"

	"marketplace-backend/internal/data/entity"
	"marketplace-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteBySeller(ctx context.Context, sellerID uuid.UUID) error
}

type refreshTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefreshTokenRepository(db database.PgxIface, log *zap.Logger) RefreshTokenRepository {
	return &refreshTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "refresh_token")),
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, seller_id, token,
		                            expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.SellerID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create refresh token",
			zap.Error(err),
			zap.String("token_id", token.ID.String()),
		)
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

// FindByToken returns the persisted row for a presented refresh token, or nil
// when it was never issued, already rotated, or expired.
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	query := `
		SELECT id, user_id, seller_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND expires_at > NOW()
	`

	var rt entity.RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.SellerID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find refresh token", zap.Error(err))
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &rt, nil
}

// DeleteByUser enforces the single-active-session policy: called before every
// insert for the same account, and on logout.
func (r *refreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to delete user refresh tokens",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete refresh tokens for user %s: %w", userID.String(), err)
	}

	return nil
}

func (r *refreshTokenRepository) DeleteBySeller(ctx context.Context, sellerID uuid.UUID) error {
	query := `DELETE FROM refresh_tokens WHERE seller_id = $1`

	_, err := r.db.Exec(ctx, query, sellerID)
	if err != nil {
		r.log.Error("Failed to delete seller refresh tokens",
			zap.Error(err),
			zap.String("seller_id", sellerID.String()),
		)
		return fmt.Errorf("delete refresh tokens for seller %s: %w", sellerID.String(), err)
	}

	return nil
}
