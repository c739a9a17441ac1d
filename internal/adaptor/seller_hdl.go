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

// SellerHandler serves the seller portal authentication endpoints. Same OTP
// flow as the storefront, different account table and response hints.
type SellerHandler struct {
	service usecase.AuthService
	config  *utils.Config
	log     *zap.Logger
}

func NewSellerHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		config:  config,
		log:     log,
	}
}

// SendOTP handles POST /api/seller/send-otp
func (h *SellerHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.SendOTP(r.Context(), req.PhoneNumber, utils.AudienceSeller)
	if err != nil {
		handleServiceError(w, h.log, err, "send seller OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent", &response.SendOTPResponse{
		ExpiresAt:               result.ExpiresAt,
		IsExistingSeller:        &result.IsExisting,
		IsSellerProfileComplete: &result.ProfileComplete,
		SendWarning:             result.SendWarning,
	})
}

// VerifyOTP handles POST /api/seller/verify-otp
func (h *SellerHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code, utils.AudienceSeller)
	if err != nil {
		handleVerifyError(w, h.log, err)
		return
	}

	resp := &response.VerifySellerOTPResponse{
		Verified:    true,
		IsNewSeller: result.IsNewAccount,
	}

	if result.Tokens != nil {
		setSessionCookies(w, result.Tokens, !h.config.App.Debug)
		sellerID := result.AccountID.String()
		resp.SellerID = &sellerID
	}

	utils.ResponseSuccess(w, "OTP verified", resp)
}
