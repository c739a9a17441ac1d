package adaptor

import (
	"encoding/json"
	"net/http"

	"marketplace-backend/internal/dto/request"
	"marketplace-backend/internal/dto/response"
	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler serves the storefront (customer) authentication endpoints.
type AuthHandler struct {
	service usecase.AuthService
	tokens  usecase.TokenService
	config  *utils.Config
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, tokens usecase.TokenService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		config:  config,
		log:     log,
	}
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.SendOTP(r.Context(), req.PhoneNumber, utils.AudienceUser)
	if err != nil {
		handleServiceError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent", &response.SendOTPResponse{
		ExpiresAt:         result.ExpiresAt,
		IsExistingUser:    &result.IsExisting,
		IsProfileComplete: &result.ProfileComplete,
		SendWarning:       result.SendWarning,
	})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code, utils.AudienceUser)
	if err != nil {
		handleVerifyError(w, h.log, err)
		return
	}

	resp := &response.VerifyOTPResponse{
		Verified:  true,
		IsNewUser: result.IsNewAccount,
	}

	// Only known accounts get a session; new users register first
	if result.Tokens != nil {
		setSessionCookies(w, result.Tokens, !h.config.App.Debug)
		userID := result.AccountID.String()
		resp.UserID = &userID
	}

	utils.ResponseSuccess(w, "OTP verified", resp)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		utils.ResponseUnauthorized(w, "Missing refresh token")
		return
	}

	tokens, err := h.tokens.Refresh(r.Context(), cookie.Value)
	if err != nil {
		clearSessionCookies(w, !h.config.App.Debug)
		handleServiceError(w, h.log, err, "refresh session")
		return
	}

	setSessionCookies(w, tokens, !h.config.App.Debug)
	utils.ResponseSuccess(w, "Session refreshed", nil)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	audience, _ := utils.GetAudienceFromContext(r.Context())

	if err := h.tokens.RevokeSession(r.Context(), accountID, audience); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	clearSessionCookies(w, !h.config.App.Debug)
	utils.ResponseSuccess(w, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	audience, _ := utils.GetAudienceFromContext(r.Context())

	profile, err := h.service.Profile(r.Context(), accountID, audience)
	if err != nil {
		handleServiceError(w, h.log, err, "load profile")
		return
	}

	utils.ResponseSuccess(w, "Profile", profile)
}
