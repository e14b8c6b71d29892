// Package feed owns the orchestration loop: fetch pages from every
// relevant source, dedup, score, interleave, return a ranked feed.
package feed

import (
	"time"

	"go.uber.org/zap"

	"matchfeed-engine/internal/config"
	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/fetch"
	"matchfeed-engine/internal/geo"
	"matchfeed-engine/internal/pagestate"
	"matchfeed-engine/internal/rank"
	"matchfeed-engine/internal/source"
)

// Session holds all mutable per-subject state: the pagination store, the
// external-lookup caches and the adapters. Callers own it, pass nothing
// through globals, and can run independent sessions side by side.
// The precondition from the adapter contract carries over: never run two
// FetchAndMatch calls on one Session concurrently.
type Session struct {
	subject  domain.Subject
	cfg      config.Config
	logger   *zap.Logger
	state    *pagestate.Store
	adapters []source.Adapter
	scorer   rank.WeightedScorer
	mix      Mix

	geocoder *geo.Client
	jobads   *source.JobAdAdapter
}

// NewSession validates the subject and wires adapters for its role:
// opposite-role collection plus job-ad search for seekers; seeker
// collection (optionally plus the business collection) for businesses.
func NewSession(cfg config.Config, subject domain.Subject, apiKey string, logger *zap.Logger) (*Session, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	state := pagestate.NewStore()
	limiter := fetch.NewClassLimiter()
	policy := fetch.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BackoffBase: time.Duration(cfg.Retry.BackoffBaseMs) * time.Millisecond,
		Timeout:     time.Duration(cfg.Retry.TimeoutSeconds) * time.Second,
	}

	var geocoder *geo.Client
	if cfg.Sources.Geocoder.PrimaryURL != "" || cfg.Sources.Geocoder.FallbackURL != "" {
		geocoder = geo.NewClient(geo.Options{
			PrimaryURL:  cfg.Sources.Geocoder.PrimaryURL,
			FallbackURL: cfg.Sources.Geocoder.FallbackURL,
			TTL:         time.Duration(cfg.Sources.Geocoder.TTLHours) * time.Hour,
			MinDelay:    time.Duration(cfg.Sources.Geocoder.MinDelayMs) * time.Millisecond,
			Policy:      policy,
			Limiter:     limiter,
			Logger:      logger,
		})
	}

	collTimeout := time.Duration(cfg.Sources.Collections.TimeoutSeconds) * time.Second
	collection := func(src domain.Source) source.Adapter {
		return source.NewCollection(src, cfg.Sources.Collections.BaseURL, collTimeout, state, geocoder, logger)
	}

	s := &Session{
		subject:  subject,
		cfg:      cfg,
		logger:   logger,
		state:    state,
		scorer:   rank.New(cfg),
		geocoder: geocoder,
	}

	switch subject.Role {
	case domain.RoleSeeker:
		s.adapters = append(s.adapters, collection(domain.SourceBusiness))
		if cfg.Sources.JobSearch.BaseURL != "" {
			s.jobads = source.NewJobAds(state, source.JobAdOptions{
				BaseURL:  cfg.Sources.JobSearch.BaseURL,
				APIKey:   apiKey,
				Skills:   subject.SkillNameSet(),
				TTL:      time.Duration(cfg.Sources.JobSearch.TTLMinutes) * time.Minute,
				MinDelay: time.Duration(cfg.Sources.JobSearch.MinDelayMs) * time.Millisecond,
				Policy:   policy,
				Limiter:  limiter,
				Logger:   logger,
			})
			s.adapters = append(s.adapters, s.jobads)
		}
		s.mix = Mix{
			Ratio: map[domain.Source]int{
				domain.SourceJobAd:    cfg.Feed.MixJobAds,
				domain.SourceBusiness: cfg.Feed.MixBusiness,
			},
			Order: []domain.Source{domain.SourceJobAd, domain.SourceBusiness},
			Rest:  []domain.Source{domain.SourceSeeker},
		}
	default: // business
		s.adapters = append(s.adapters, collection(domain.SourceSeeker))
		if cfg.Feed.IncludeSameRole {
			s.adapters = append(s.adapters, collection(domain.SourceBusiness))
		}
		s.mix = Mix{
			Rest: []domain.Source{domain.SourceSeeker, domain.SourceBusiness},
		}
	}

	return s, nil
}

func (s *Session) Subject() domain.Subject { return s.subject }

// Refresh resets every pagination cursor and drops cached job-ad pages,
// so the next FetchAndMatch starts the feed over.
func (s *Session) Refresh() {
	s.state.ResetAll()
	if s.jobads != nil {
		s.jobads.Cache().Clear()
	}
	s.logger.Info("session refreshed", zap.String("subject", s.subject.ID))
}

// Sweep evicts expired entries from the session's caches.
func (s *Session) Sweep() int {
	removed := 0
	if s.geocoder != nil {
		removed += s.geocoder.Cache().Sweep()
	}
	if s.jobads != nil {
		removed += s.jobads.Cache().Sweep()
	}
	return removed
}
