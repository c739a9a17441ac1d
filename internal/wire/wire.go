package wire

import (
	"net/http"

	"marketplace-backend/internal/adaptor"
	"marketplace-backend/internal/data/repository"
	"marketplace-backend/internal/usecase"
	"marketplace-backend/pkg/middleware"
	"marketplace-backend/pkg/utils"
	"marketplace-backend/pkg/whatsapp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers and routes
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	whatsappClient := whatsapp.NewClient(whatsapp.Config{
		APIKey:     config.WhatsApp.APIKey,
		Source:     config.WhatsApp.Source,
		AppName:    config.WhatsApp.AppName,
		TemplateID: config.WhatsApp.TemplateID,
		BaseURL:    config.WhatsApp.BaseURL,
	}, logger)

	if whatsappClient.Mock() {
		logger.Warn("Gupshup credentials missing, WhatsApp dispatch runs in mock mode")
	}

	service := usecase.NewService(repo, whatsappClient, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, service, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, service *usecase.Service, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, service.Token, logger)
	wireSeller(r, handler.Seller)
	wireAdmin(r, handler.Admin)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
