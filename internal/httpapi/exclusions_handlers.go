package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"matchfeed-engine/internal/events"
	"matchfeed-engine/internal/store"
)

type ExclusionsHandler struct {
	Store  *store.Store
	Hub    *events.Hub
	Logger *zap.Logger
}

func (h *ExclusionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Store.LoadExclusionIDs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, map[string]any{"ids": ids})
}

// Add records one acted-on profile id so it is never shown again.
func (h *ExclusionsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.ID) == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	if err := h.Store.AddExclusionID(r.Context(), body.ID); err != nil {
		// Non-critical: the swipe still happened, we just may re-show.
		h.Logger.Warn("persisting exclusion failed", zap.String("id", body.ID), zap.Error(err))
	}
	h.Hub.Publish(events.Make(events.TypeExclusionAdded, map[string]string{"id": body.ID}))
	writeJSON(w, map[string]any{"ok": true})
}

// Clear wipes the queue and exclusion set for this subject.
func (h *ExclusionsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ClearAll(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.Hub.Publish(events.Make(events.TypeQueueCleared, nil))
	writeJSON(w, map[string]any{"ok": true})
}
