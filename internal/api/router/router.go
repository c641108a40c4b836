package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rashadk/barberai-platform/internal/chat"
	"github.com/rashadk/barberai-platform/internal/http/handlers"
	httpmiddleware "github.com/rashadk/barberai-platform/internal/http/middleware"
	"github.com/rashadk/barberai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	AdminHandler       *handlers.AdminHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates the Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(r chi.Router) {
			r.Get("/ws", cfg.ChatHandler.HandleWebSocket)
			r.Post("/message", cfg.ChatHandler.HandleMessage)
			r.Get("/history", cfg.ChatHandler.HandleHistory)
		})
		r.Get("/api/bookings/{appointmentID}/calendar.ics", func(w http.ResponseWriter, req *http.Request) {
			cfg.ChatHandler.HandleCalendarICS(w, req, chi.URLParam(req, "appointmentID"))
		})
	}

	if cfg.AdminHandler != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			r.Get("/appointments", cfg.AdminHandler.HandleListAppointments)
			r.Get("/stats", cfg.AdminHandler.HandleStats)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
