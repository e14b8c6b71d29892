package config

import (
	"fmt"
	"math"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus anything a human
// should look at before running with this config.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Subject.Commitments = trimList(out.Subject.Commitments)
	out.Subject.Industries = trimList(out.Subject.Industries)
	out.Subject.Role = strings.ToLower(strings.TrimSpace(out.Subject.Role))

	// ---- Validation rules ----

	if strings.TrimSpace(out.Subject.ID) == "" {
		res.addErr("subject.id is required")
	}
	switch out.Subject.Role {
	case "seeker", "business":
	default:
		res.addErr("subject.role must be \"seeker\" or \"business\", got %q", out.Subject.Role)
	}
	if len(out.Subject.Skills) == 0 {
		res.addWarn("subject.skills is empty; skill scoring and job-ad search will find little.")
	}

	if strings.TrimSpace(out.Sources.Collections.BaseURL) == "" {
		res.addErr("sources.collections.base_url is required")
	}
	if strings.TrimSpace(out.Sources.JobSearch.BaseURL) == "" && out.Subject.Role == "seeker" {
		res.addWarn("sources.job_search.base_url is empty; seeker feeds will carry no job ads.")
	}

	if out.Retry.MaxAttempts <= 0 {
		res.addErr("retry.max_attempts must be > 0")
	}
	if out.Retry.BackoffBaseMs <= 0 {
		res.addErr("retry.backoff_base_ms must be > 0")
	}
	if out.Retry.TimeoutSeconds <= 0 {
		res.addErr("retry.timeout_seconds must be > 0")
	}

	if out.Sources.JobSearch.MinDelayMs < 200 {
		res.addWarn("sources.job_search.min_delay_ms is very low (%d); the search API may rate-limit you.", out.Sources.JobSearch.MinDelayMs)
	}

	w := out.Scoring.Weights
	sum := w.Distance + w.Skills + w.Commitment + w.Experience + w.Industry + w.SourceBoost
	if math.Abs(sum-1.0) > 0.01 {
		res.addWarn("scoring weights sum to %.2f, not 1.0; scores will still rank but won't be comparable across configs.", sum)
	}
	for name, v := range map[string]float64{
		"distance": w.Distance, "skills": w.Skills, "commitment": w.Commitment,
		"experience": w.Experience, "industry": w.Industry, "source_boost": w.SourceBoost,
	} {
		if v < 0 {
			res.addErr("scoring.weights.%s must be >= 0", name)
		}
	}

	if out.Feed.MaxRounds <= 0 {
		res.addErr("feed.max_rounds must be > 0")
	}
	if out.Feed.MixBusiness < 0 || out.Feed.MixJobAds < 0 {
		res.addErr("feed mixing ratio entries must be >= 0")
	}

	if out.Store.MaxExclusions <= 0 {
		res.addErr("store.max_exclusions must be > 0")
	}

	return out, res
}
