package workflow

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/clarity/pkg/adapters"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler starts and stops scheduled statement syncs.
type Handler struct {
	controller workflow.Controller
}

func NewHandler(controller workflow.Controller) *Handler {
	return &Handler{controller: controller}
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	statuses := adapters.MapSyncStatusesToApi(h.controller.Status(r.Context()))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode sync status")
	}
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	if company == "" {
		http.Error(w, "company is required", http.StatusBadRequest)
		return
	}

	if err := h.controller.Start(r.Context(), company); err != nil {
		if errors.Is(err, config.ErrCompanyNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("company", company).Msg("failed to start sync")
		http.Error(w, "failed to start sync", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	if company == "" {
		http.Error(w, "company is required", http.StatusBadRequest)
		return
	}

	if err := h.controller.Cancel(r.Context(), company); err != nil {
		if errors.Is(err, workflow.ErrNotRunning) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("company", company).Msg("failed to cancel sync")
		http.Error(w, "failed to cancel sync", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
