package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultYAML = `app:
  port: 38520
  data_dir: "."

subject:
  id: ""
  role: seeker
  lat: 0
  lon: 0
  skills: []
  commitments: [full-time]

sources:
  collections:
    base_url: ""
    page_size: 20
  job_search:
    base_url: ""
    page_size: 20
    ttl_minutes: 10
    min_delay_ms: 1100
  geocoder:
    primary_url: ""
    fallback_url: ""
    ttl_hours: 24
    min_delay_ms: 1100

retry:
  max_attempts: 3
  backoff_base_ms: 500
  timeout_seconds: 10

scoring:
  weights:
    distance: 0.25
    skills: 0.40
    commitment: 0.15
    experience: 0.10
    industry: 0.05
    source_boost: 0.05
  radius_km: 0
  boosts:
    jobad: 1.0
    business: 0.5

feed:
  max_rounds: 5
  mix_business: 1
  mix_job_ads: 2

store:
  queue_ttl_hours: 24
  max_exclusions: 2000

maintenance:
  sweep_spec: "@every 10m"
`

// EnsureUserConfig writes the default config into dataDir on first run and
// returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(userPath, []byte(defaultYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
