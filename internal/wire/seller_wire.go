package wire

import (
	"marketplace-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeller(r chi.Router, sellerHandler *adaptor.SellerHandler) {
	r.Post("/api/seller/send-otp", sellerHandler.SendOTP)
	r.Post("/api/seller/verify-otp", sellerHandler.VerifyOTP)
}
