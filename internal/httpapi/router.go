package httpapi

import (
	"net/http"
	"time"
)

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	fh := FeedHandler{Session: d.Session, Store: d.Store, Hub: d.Hub, Logger: d.Logger}
	mux.HandleFunc("/feed", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Get,
	}))
	mux.HandleFunc("/feed/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: fh.Refresh,
	}))
	mux.HandleFunc("/queue", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Queue,
	}))

	eh := ExclusionsHandler{Store: d.Store, Hub: d.Hub, Logger: d.Logger}
	mux.HandleFunc("/exclusions", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  eh.List,
		http.MethodPost: eh.Add,
	}))
	mux.HandleFunc("/exclusions/clear", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: eh.Clear,
	}))

	sh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.ServeSSE,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
		},
	}))

	return mux
}
