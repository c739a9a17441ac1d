package adaptor

import (
	"net/http"
	"strings"

	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	Seller *SellerHandler
	Admin  *AdminHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(service.Auth, service.Token, config, log),
		Seller: NewSellerHandler(service.Auth, config, log),
		Admin:  NewAdminHandler(service.Auth, config, log),
	}
}

// handleServiceError maps service error messages to HTTP status codes.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "invalid phone number"),
		strings.Contains(errMsg, "invalid OTP code"):
		log.Warn(operation+" rejected input", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid credentials"):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "invalid or expired refresh token"):
		log.Warn(operation+" failed - bad refresh token", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// handleVerifyError keeps the verify responses in the documented shape:
// 400 with a verified:false payload for every expected rejection.
func handleVerifyError(w http.ResponseWriter, log *zap.Logger, err error) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "invalid phone number"),
		strings.Contains(errMsg, "invalid OTP code"),
		strings.Contains(errMsg, "no valid OTP found"),
		strings.Contains(errMsg, "invalid code"):
		log.Warn("OTP verification rejected", zap.Error(err))
		utils.ResponseJSON(w, http.StatusBadRequest, false, errMsg,
			map[string]any{"verified": false}, nil)

	default:
		log.Error("Failed to verify OTP", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
