package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/internal/scanner"
)

// Controller is the command surface the API drives
type Controller interface {
	UpdateWatchList(targets []models.DetectableTarget)
	WatchList() []models.DetectableTarget
	SetEnabled(enabled bool) bool
	Rescan()
	Status() scanner.Status
}

type Handler struct {
	ctrl Controller
	log  zerolog.Logger
}

func NewHandler(ctrl Controller, log zerolog.Logger) *Handler {
	return &Handler{ctrl: ctrl, log: log}
}

// EnabledRequest is the body of PUT /api/scanner
type EnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *Handler) SetupRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/watchlist", h.handleGetWatchList)
		r.Put("/watchlist", h.handlePutWatchList)
		r.Put("/scanner", h.handleSetEnabled)
		r.Post("/scanner/rescan", h.handleRescan)
		r.Get("/status", h.handleStatus)
	})

	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleGetWatchList(w http.ResponseWriter, r *http.Request) {
	targets := h.ctrl.WatchList()
	if targets == nil {
		targets = []models.DetectableTarget{}
	}
	respondJSON(w, targets)
}

func (h *Handler) handlePutWatchList(w http.ResponseWriter, r *http.Request) {
	var targets []models.DetectableTarget
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.ctrl.UpdateWatchList(targets)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var req EnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Enabled == nil {
		http.Error(w, `missing "enabled"`, http.StatusBadRequest)
		return
	}

	h.ctrl.SetEnabled(*req.Enabled)
	respondJSON(w, h.ctrl.Status())
}

func (h *Handler) handleRescan(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Rescan()
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.ctrl.Status())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
