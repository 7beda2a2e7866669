package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	catalogapp "github.com/stadimeshi/services/api/internal/catalog/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger          *log.Logger
	stadiumCommands catalogapp.StadiumCommandService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger          *log.Logger
	StadiumCommands catalogapp.StadiumCommandService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:          cfg.Logger,
		stadiumCommands: cfg.StadiumCommands,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/update-stadium", h.stadiumUpdateHandler())
}
