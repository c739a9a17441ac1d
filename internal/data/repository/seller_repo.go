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

type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*entity.Seller, error)
}

type sellerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSellerRepository(db database.PgxIface, log *zap.Logger) SellerRepository {
	return &sellerRepository{
		db:  db,
		log: log.With(zap.String("repository", "seller")),
	}
}

const sellerColumns = `id, phone_number, name, shop_name, email,
	       profile_complete, created_at, updated_at`

func (sr *sellerRepository) scanSeller(row pgx.Row) (*entity.Seller, error) {
	var seller entity.Seller
	err := row.Scan(
		&seller.ID,
		&seller.PhoneNumber,
		&seller.Name,
		&seller.ShopName,
		&seller.Email,
		&seller.ProfileComplete,
		&seller.CreatedAt,
		&seller.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (sr *sellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE id = $1`

	seller, err := sr.scanSeller(sr.db.QueryRow(ctx, query, id))
	if err != nil {
		sr.log.Error("Failed to find seller by id",
			zap.Error(err),
			zap.String("seller_id", id.String()),
		)
		return nil, fmt.Errorf("find seller %s: %w", id.String(), err)
	}

	return seller, nil
}

func (sr *sellerRepository) FindByPhone(ctx context.Context, phoneNumber string) (*entity.Seller, error) {
	query := `SELECT ` + sellerColumns + ` FROM sellers WHERE phone_number = $1`

	seller, err := sr.scanSeller(sr.db.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		sr.log.Error("Failed to find seller by phone",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("find seller by phone %s: %w", phoneNumber, err)
	}

	return seller, nil
}
