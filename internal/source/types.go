// Package source holds the adapters that put every backing store, the
// two server-paginated profile collections and the offset-paginated
// external search API, behind one fetch-next-page contract.
package source

import (
	"context"

	"matchfeed-engine/internal/domain"
)

type Page struct {
	Profiles []domain.Profile
	HasMore  bool
}

// Adapter is the uniform contract the orchestrator drives. FetchPage must
// return an empty page without a network round-trip once its cursor is
// exhausted. Callers must not issue overlapping FetchPage calls against
// the same adapter; a second call before the first settles can observe a
// stale cursor.
type Adapter interface {
	Name() string
	Source() domain.Source
	FetchPage(ctx context.Context, exclude map[string]bool, pageSize int) (Page, error)
}
