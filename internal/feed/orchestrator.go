package feed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/source"
)

const defaultCount = 10

// FetchAndMatch runs the fetch/dedup/score/mix loop and returns at most
// count profiles, best match first. Adapter failures degrade to zero
// profiles for the round; the only error this can return is a missing or
// invalid subject identity.
func (s *Session) FetchAndMatch(ctx context.Context, excludeIDs []string, count int) ([]domain.Profile, error) {
	if err := s.subject.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = defaultCount
	}

	exclude := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = true
	}

	seen := make(map[string]bool)
	var collected []domain.Profile

	for round := 0; round < s.cfg.Feed.MaxRounds; round++ {
		pages := s.fetchRound(ctx, exclude, count)

		newThisRound := 0
		allExhausted := true
		for _, pg := range pages {
			if pg.HasMore {
				allExhausted = false
			}
			for _, p := range pg.Profiles {
				if p.ID == "" || seen[p.ID] || exclude[p.ID] {
					continue
				}
				seen[p.ID] = true
				collected = append(collected, p)
				newThisRound++
			}
		}

		s.logger.Debug("fetch round done",
			zap.Int("round", round),
			zap.Int("new", newThisRound),
			zap.Int("collected", len(collected)),
			zap.Bool("all_exhausted", allExhausted),
		)

		if len(collected) >= count || allExhausted || newThisRound == 0 {
			break
		}
	}

	ranked := s.scorer.Rank(s.subject, collected)
	mixed := Interleave(ranked, s.mix)
	if len(mixed) > count {
		mixed = mixed[:count]
	}
	return mixed, nil
}

// fetchRound issues one concurrent call per adapter and collects every
// outcome; a failed call logs and yields an empty page instead of
// aborting the refresh.
func (s *Session) fetchRound(ctx context.Context, exclude map[string]bool, pageSize int) []source.Page {
	pages := make([]source.Page, len(s.adapters))

	var g errgroup.Group
	for i, a := range s.adapters {
		g.Go(func() error {
			pg, err := a.FetchPage(ctx, exclude, pageSize)
			if err != nil {
				s.logger.Warn("adapter fetch failed",
					zap.String("adapter", a.Name()),
					zap.Error(err),
				)
				return nil // best-effort: don't cancel siblings
			}
			pages[i] = pg
			return nil
		})
	}
	_ = g.Wait()

	return pages
}
