package orgs

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
	"github.com/canteencloud/console/internal/shared"
)

// Handler wires HTTP endpoints for one organization type. The router
// mounts two instances: /schools and /suppliers.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	orgType   nav.OrgType
	validator *validator.Validate
}

// NewHandler constructs a Handler bound to an organization type.
func NewHandler(logger *slog.Logger, service *Service, orgType nav.OrgType) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		orgType:   orgType,
		validator: validator.New(),
	}
}

// MountRoutes registers organization routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Patch("/{id}/status", h.handleUpdateStatus)
}

type createRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	caller := session.FromContext(r.Context())
	org, err := h.service.Create(r.Context(), caller, h.orgType, CreateParams{
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		h.logger.Error("create organization",
			slog.String("org_type", h.orgType.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, org)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r)
	caller := session.FromContext(r.Context())
	orgs, total, err := h.service.List(r.Context(), caller, h.orgType, page, perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"list":       orgs,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

type updateStatusRequest struct {
	Status int16 `json:"status" validate:"required,oneof=1 2"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	caller := session.FromContext(r.Context())
	if err := h.service.UpdateStatus(r.Context(), caller, h.orgType, id, req.Status); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
