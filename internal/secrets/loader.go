package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the engine's secrets in the OS keychain.
	KeyringService = "matchfeed"

	JobSearchAccount = "jobsearch-api-key"

	jobSearchEnv = "MATCHFEED_JOBSEARCH_API_KEY"
)

// JobSearchAPIKey returns the external search API key: keychain first,
// environment fallback. An empty key is not an error; the adapter simply
// calls the API unauthenticated.
func JobSearchAPIKey() string {
	if key, err := keyring.Get(KeyringService, JobSearchAccount); err == nil && strings.TrimSpace(key) != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(jobSearchEnv))
}

func SetJobSearchAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, JobSearchAccount, key)
}

func DeleteJobSearchAPIKey() error {
	return keyring.Delete(KeyringService, JobSearchAccount)
}
