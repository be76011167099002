package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	validator  *validator.Validate
	loginLimit int
}

// NewHandler constructs a Handler instance. loginLimit caps login
// attempts per IP per minute.
func NewHandler(logger *slog.Logger, service *Service, loginLimit int) *Handler {
	if loginLimit <= 0 {
		loginLimit = 10
	}
	return &Handler{
		logger:     logger,
		service:    service,
		validator:  validator.New(),
		loginLimit: loginLimit,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.With(RequireSession).Get("/profile", h.handleProfile)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	// Role is accepted for wire compatibility with older clients but is
	// never trusted; the effective role always comes from the database.
	Role string `json:"role,omitempty"`
}

type loginResponse struct {
	Token    string        `json:"token"`
	UserInfo loginUserInfo `json:"user_info"`
}

type loginUserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	RealName string `json:"real_name"`
	Role     string `json:"role"`
	OrgID    int64  `json:"org_id"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	sess, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Info("login rejected", slog.String("username", req.Username))
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Token: sess.Token,
		UserInfo: loginUserInfo{
			ID:       sess.Profile.UserID,
			Username: sess.Profile.Username,
			RealName: sess.Profile.RealName,
			Role:     sess.Role.String(),
			OrgID:    sess.Profile.OrgID,
		},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), bearerToken(r)); err != nil {
		h.logger.Warn("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httpx.JSON(w, http.StatusOK, loginUserInfo{
		ID:       sess.Profile.UserID,
		Username: sess.Profile.Username,
		RealName: sess.Profile.RealName,
		Role:     sess.Role.String(),
		OrgID:    sess.Profile.OrgID,
	})
}
