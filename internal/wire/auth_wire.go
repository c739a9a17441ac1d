package wire

import (
	"marketplace-backend/internal/adaptor"
	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	tokenService usecase.TokenService,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/send-otp", authHandler.SendOTP)
	r.Post("/api/auth/verify-otp", authHandler.VerifyOTP)
	r.Post("/api/auth/refresh", authHandler.Refresh)

	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(tokenService, log)
	r.With(auth).Post("/api/auth/logout", authHandler.Logout)
	r.With(auth).Get("/api/auth/me", authHandler.Me)
}
