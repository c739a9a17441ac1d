package usecase

import (
	"marketplace-backend/internal/data/repository"
	"marketplace-backend/pkg/utils"
	"marketplace-backend/pkg/whatsapp"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	Token TokenService
}

func NewService(
	repo *repository.Repository,
	whatsappClient *whatsapp.Client,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	token := NewTokenService(repo, config, log)

	return &Service{
		Auth:  NewAuthService(repo, token, whatsappClient, config, log),
		Token: token,
	}
}
