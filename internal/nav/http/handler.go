// Package http exposes the navigation engine to the SPA: the guard's
// decision for a target path, the session's menu tree and the affordance
// check behind conditional UI elements.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

// SessionRevoker terminates sessions when the guard decides a forced
// logout. Satisfied by the auth service.
type SessionRevoker interface {
	Logout(ctx context.Context, raw string) error
}

// DecisionObserver counts guard outcomes. Satisfied by
// observability.Metrics; a nil observer disables counting.
type DecisionObserver interface {
	ObserveGuardDecision(decision string)
}

// Handler serves the navigation endpoints.
type Handler struct {
	logger   *slog.Logger
	guard    *nav.Guard
	revoker  SessionRevoker
	observer DecisionObserver
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, guard *nav.Guard, revoker SessionRevoker, observer DecisionObserver) *Handler {
	return &Handler{logger: logger, guard: guard, revoker: revoker, observer: observer}
}

// MountRoutes registers navigation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/resolve", h.handleResolve)
	r.Get("/menus", h.handleMenus)
	r.Get("/authorized", h.handleAuthorized)
}

type resolveResponse struct {
	Decision string `json:"decision"`
	Location string `json:"location,omitempty"`
}

// handleResolve is the SPA's beforeEach hook: it returns the guard's
// verdict for the requested path. The decision is computed purely; the
// one side effect, revoking the session on a forced logout, is applied
// here so the client only ever has to follow the returned location.
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("path")
	if target == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	sess := session.FromContext(r.Context())
	decision := h.guard.Resolve(r.Context(), target, sess.Identity())
	if h.observer != nil {
		h.observer.ObserveGuardDecision(decision.Kind.String())
	}

	if decision.Kind == nav.DecisionForceLogout {
		if err := h.revoker.Logout(r.Context(), rawToken(r)); err != nil {
			h.logger.Warn("revoke session after fatal guard decision", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, resolveResponse{
		Decision: decision.Kind.String(),
		Location: decision.Location,
	})
}

func (h *Handler) handleMenus(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.Active() {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	menus, err := h.guard.Menus(r.Context(), sess.Identity())
	if err != nil {
		h.logger.Error("build menus", slog.String("role", sess.Role.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"menus": menus})
}

func (h *Handler) handleAuthorized(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("path")
	if target == "" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	sess := session.FromContext(r.Context())
	authorized := h.guard.Authorized(r.Context(), target, sess.Identity())
	httpx.JSON(w, http.StatusOK, map[string]bool{"authorized": authorized})
}

func rawToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
