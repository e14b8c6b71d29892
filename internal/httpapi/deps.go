package httpapi

import (
	"go.uber.org/zap"

	"matchfeed-engine/internal/events"
	"matchfeed-engine/internal/feed"
	"matchfeed-engine/internal/store"
)

// Deps carries everything the handlers need; main() wires it once.
type Deps struct {
	Session *feed.Session
	Store   *store.Store
	Hub     *events.Hub
	Logger  *zap.Logger
}
