package oplog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
	"github.com/canteencloud/console/internal/shared"
)

// Handler wires HTTP endpoints for log listings.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers log routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r)
	orgID, _ := strconv.ParseInt(r.URL.Query().Get("orgId"), 10, 64)

	caller := session.FromContext(r.Context())
	entries, total, err := h.service.List(r.Context(), caller, orgID, page, perPage)
	if err != nil {
		h.logger.Error("list op logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"list":       entries,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}
