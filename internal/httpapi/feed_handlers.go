package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/events"
	"matchfeed-engine/internal/feed"
	"matchfeed-engine/internal/store"
)

type FeedHandler struct {
	Session *feed.Session
	Store   *store.Store
	Hub     *events.Hub
	Logger  *zap.Logger
}

type profileView struct {
	ID          string   `json:"id"`
	Source      string   `json:"source"`
	DisplayName string   `json:"displayName"`
	Location    string   `json:"location"`
	Skills      []string `json:"skills"`
	Score       float64  `json:"score"`
}

func toView(p domain.Profile) profileView {
	score := 0.0
	if p.Score != nil {
		score = *p.Score
	}
	return profileView{
		ID:          p.ID,
		Source:      string(p.Source),
		DisplayName: p.DisplayName(),
		Location:    p.Location.Name,
		Skills:      p.SkillNameSet(),
		Score:       score,
	}
}

// Get runs the orchestrator for the configured subject. count defaults
// to 10. Persistence failures are logged and skipped; the feed still
// returns.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	ctx := r.Context()

	excludeIDs, err := h.Store.LoadExclusionIDs(ctx)
	if err != nil {
		h.Logger.Warn("loading exclusions failed, proceeding without", zap.Error(err))
	}

	profiles, err := h.Session.FetchAndMatch(ctx, excludeIDs, count)
	if err != nil {
		if errors.Is(err, domain.ErrMissingSubject) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Store.SaveQueue(ctx, profiles); err != nil {
		h.Logger.Warn("saving queue failed", zap.Error(err))
	}
	h.Hub.Publish(events.Make(events.TypeFeedRefreshed, map[string]int{"count": len(profiles)}))

	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toView(p))
	}
	writeJSON(w, map[string]any{"profiles": views})
}

// Refresh resets pagination and caches so the next fetch starts over.
func (h *FeedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Session.Refresh()
	writeJSON(w, map[string]any{"ok": true})
}

// Queue returns the last persisted feed, if still valid for this subject.
func (h *FeedHandler) Queue(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.LoadQueue(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toView(p))
	}
	writeJSON(w, map[string]any{"profiles": views})
}
