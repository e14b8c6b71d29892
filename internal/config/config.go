package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SubjectSkill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Level    string `yaml:"level"` // beginner|intermediate|advanced|expert
	Verified bool   `yaml:"verified"`
}

type Weights struct {
	Distance    float64 `yaml:"distance"`
	Skills      float64 `yaml:"skills"`
	Commitment  float64 `yaml:"commitment"`
	Experience  float64 `yaml:"experience"`
	Industry    float64 `yaml:"industry"`
	SourceBoost float64 `yaml:"source_boost"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	// Subject served by `engine serve`. Library callers build their own
	// domain.Subject and never touch this section.
	Subject struct {
		ID          string         `yaml:"id"`
		Role        string         `yaml:"role"` // seeker|business
		Lat         float64        `yaml:"lat"`
		Lon         float64        `yaml:"lon"`
		Location    string         `yaml:"location"`
		Skills      []SubjectSkill `yaml:"skills"`
		Commitments []string       `yaml:"commitments"`
		Experience  int            `yaml:"experience_years"`
		Industries  []string       `yaml:"industries"`
	} `yaml:"subject"`

	Sources struct {
		Collections struct {
			BaseURL        string `yaml:"base_url"`
			PageSize       int    `yaml:"page_size"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"collections"`

		JobSearch struct {
			BaseURL    string `yaml:"base_url"`
			PageSize   int    `yaml:"page_size"`
			TTLMinutes int    `yaml:"ttl_minutes"`
			MinDelayMs int    `yaml:"min_delay_ms"`
		} `yaml:"job_search"`

		Geocoder struct {
			PrimaryURL  string `yaml:"primary_url"`
			FallbackURL string `yaml:"fallback_url"`
			TTLHours    int    `yaml:"ttl_hours"`
			MinDelayMs  int    `yaml:"min_delay_ms"`
		} `yaml:"geocoder"`
	} `yaml:"sources"`

	Retry struct {
		MaxAttempts    int `yaml:"max_attempts"`
		BackoffBaseMs  int `yaml:"backoff_base_ms"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"retry"`

	Scoring struct {
		Weights  Weights `yaml:"weights"`
		RadiusKm float64 `yaml:"radius_km"` // 0 disables the capped variant

		// Per-source additive boosts keeping the feed tilted toward
		// actionable results.
		Boosts map[string]float64 `yaml:"boosts"`

		DefaultLat      float64 `yaml:"default_lat"`
		DefaultLon      float64 `yaml:"default_lon"`
		DefaultLocation string  `yaml:"default_location"`
	} `yaml:"scoring"`

	Feed struct {
		MaxRounds int `yaml:"max_rounds"`
		// Mixing ratio for a seeker feed: business profiles per job ads.
		MixBusiness     int  `yaml:"mix_business"`
		MixJobAds       int  `yaml:"mix_job_ads"`
		IncludeSameRole bool `yaml:"include_same_role"` // business callers only
	} `yaml:"feed"`

	Store struct {
		QueueTTLHours int `yaml:"queue_ttl_hours"`
		MaxExclusions int `yaml:"max_exclusions"`
	} `yaml:"store"`

	Maintenance struct {
		SweepSpec string `yaml:"sweep_spec"` // cron spec, e.g. "@every 10m"
	} `yaml:"maintenance"`
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the documented baseline. The scoring weights are
// empirically chosen, not derived; treat them as tunable parameters.
func Default() Config {
	var cfg Config

	cfg.App.Port = 38520
	cfg.App.DataDir = "."

	cfg.Sources.Collections.PageSize = 20
	cfg.Sources.Collections.TimeoutSeconds = 15

	cfg.Sources.JobSearch.PageSize = 20
	cfg.Sources.JobSearch.TTLMinutes = 10
	cfg.Sources.JobSearch.MinDelayMs = 1100

	cfg.Sources.Geocoder.TTLHours = 24
	cfg.Sources.Geocoder.MinDelayMs = 1100

	cfg.Retry.MaxAttempts = 3
	cfg.Retry.BackoffBaseMs = 500
	cfg.Retry.TimeoutSeconds = 10

	cfg.Scoring.Weights = Weights{
		Distance:    0.25,
		Skills:      0.40,
		Commitment:  0.15,
		Experience:  0.10,
		Industry:    0.05,
		SourceBoost: 0.05,
	}
	cfg.Scoring.Boosts = map[string]float64{
		"jobad":    1.0,
		"business": 0.5,
	}

	cfg.Feed.MaxRounds = 5
	cfg.Feed.MixBusiness = 1
	cfg.Feed.MixJobAds = 2

	cfg.Store.QueueTTLHours = 24
	cfg.Store.MaxExclusions = 2000

	cfg.Maintenance.SweepSpec = "@every 10m"

	return cfg
}
