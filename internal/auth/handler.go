package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cohort-tools/cohort-tools/internal/platform/httpx"
	"github.com/cohort-tools/cohort-tools/internal/platform/validation"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	middleware Middleware
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, middleware Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		middleware: middleware,
		validator:  validation.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
	r.With(h.middleware.RequireToken).Get("/verify", h.handleVerify)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := validation.Struct(h.validator, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	user, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("signup failed", slog.Any("error", err))
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("user signed up", slog.String("user_id", user.ID))
	httpx.JSON(w, http.StatusOK, signupResponse{Message: "Signup successful", User: user})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := validation.Struct(h.validator, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.Any("error", err))
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Message: "Login successful", AuthToken: token})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	h.logger.Info("token verified", slog.String("user_id", claims.UserID))
	httpx.JSON(w, http.StatusOK, verifyResponse{CurrentUser: claims})
}
