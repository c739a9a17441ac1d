package wire

import (
	"marketplace-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler) {
	r.Post("/api/admin/login", adminHandler.Login)
}
