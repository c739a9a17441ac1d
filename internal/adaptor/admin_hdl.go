package adaptor

import (
	"encoding/json"
	"net/http"

	"marketplace-backend/internal/dto/request"
	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/utils"

	"go.uber.org/zap"
)

// AdminHandler is the back-office login. Admins are password accounts, not
// OTP accounts, but they get the same cookie session.
type AdminHandler struct {
	service usecase.AuthService
	config  *utils.Config
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	userID, tokens, err := h.service.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.log, err, "admin login")
		return
	}

	setSessionCookies(w, tokens, !h.config.App.Debug)
	utils.ResponseSuccess(w, "Login successful", map[string]any{
		"userId": userID.String(),
	})
}
