package cohorts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cohort-tools/cohort-tools/internal/platform/httpx"
	"github.com/cohort-tools/cohort-tools/internal/platform/validation"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validation.New()}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cohorts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list cohorts failed", "error", err)
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cohorts)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cohort, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("get cohort failed", "error", err, "id", id)
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cohort)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCohortRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := validation.Struct(h.validator, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create cohort failed", "error", err)
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("cohort created", "id", created.ID)
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateCohortRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := validation.Struct(h.validator, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Warn("update cohort failed", "error", err, "id", id)
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("cohort updated", "id", id)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete cohort failed", "error", err, "id", id)
		httpx.RespondError(w, h.logger, err)
		return
	}
	h.logger.Info("cohort deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}
