package repository

import (
	"marketplace-backend/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Seller       SellerRepository
	OTP          OTPRepository
	RefreshToken RefreshTokenRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Seller:       NewSellerRepository(db, log),
		OTP:          NewOTPRepository(db, log),
		RefreshToken: NewRefreshTokenRepository(db, log),
	}
}
