package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"matchfeed-engine/internal/cache"
	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/fetch"
	"matchfeed-engine/internal/pagestate"
)

const jobSearchClass = "jobsearch"

// JobAdAdapter drives the external job-search API: boolean-OR query built
// from the subject's skills, offset pagination, rate limiting, retries and
// a short-TTL page cache. A changed skill set changes the query
// fingerprint and silently restarts pagination from offset zero.
type JobAdAdapter struct {
	baseURL string
	apiKey  string
	skills  []string
	hc      *http.Client
	state   *pagestate.Store
	cache   *cache.Cache[searchPage]
	limiter *fetch.ClassLimiter
	policy  fetch.Policy
	logger  *zap.Logger
}

// searchPage pairs the mapped profiles with the raw record count the API
// returned. Mapping drops malformed records, so exhaustion and offset
// advance must be judged on the raw count: a short mapped page would
// otherwise end the stream while the API still has more.
type searchPage struct {
	Profiles []domain.Profile
	Raw      int
}

type JobAdOptions struct {
	BaseURL  string
	APIKey   string
	Skills   []string // subject skill names driving the query
	TTL      time.Duration
	MinDelay time.Duration
	Policy   fetch.Policy
	Limiter  *fetch.ClassLimiter
	Logger   *zap.Logger
}

func NewJobAds(state *pagestate.Store, opts JobAdOptions) *JobAdAdapter {
	lim := opts.Limiter
	if lim == nil {
		lim = fetch.NewClassLimiter()
	}
	if opts.MinDelay > 0 {
		lim.SetDelay(jobSearchClass, opts.MinDelay)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobAdAdapter{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		skills:  opts.Skills,
		hc:      &http.Client{Timeout: 20 * time.Second},
		state:   state,
		cache:   cache.New[searchPage](ttl),
		limiter: lim,
		policy:  opts.Policy,
		logger:  logger,
	}
}

func (a *JobAdAdapter) Name() string          { return "jobads" }
func (a *JobAdAdapter) Source() domain.Source { return domain.SourceJobAd }

// Cache exposes the page cache for scheduled sweeps and refresh.
func (a *JobAdAdapter) Cache() *cache.Cache[searchPage] { return a.cache }

// BuildQuery joins skill names with boolean OR the way the search API
// expects them.
func BuildQuery(skills []string) string {
	seen := map[string]bool{}
	var names []string
	for _, s := range skills {
		s = strings.ToLower(cleanText(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		names = append(names, s)
	}
	return strings.Join(names, " OR ")
}

func (a *JobAdAdapter) FetchPage(ctx context.Context, exclude map[string]bool, pageSize int) (Page, error) {
	if a.baseURL == "" || len(a.skills) == 0 {
		return Page{}, nil
	}

	fp := cache.Fingerprint(a.skills)
	cur := a.state.SyncFingerprint(domain.SourceJobAd, fp)
	if !cur.HasMore {
		return Page{}, nil
	}

	key := fmt.Sprintf("%s@%d/%d", fp, cur.Offset, pageSize)
	res, err := a.cache.GetOrFetch(ctx, key, func(ctx context.Context) (searchPage, error) {
		return fetch.Do(ctx, a.policy, func(ctx context.Context) (searchPage, error) {
			return a.search(ctx, cur.Offset, pageSize)
		})
	})
	if err != nil {
		return Page{}, err
	}

	hasMore := res.Raw == pageSize
	a.state.Advance(domain.SourceJobAd, pagestate.Cursor{
		Offset:      cur.Offset + res.Raw,
		HasMore:     hasMore,
		Fingerprint: fp,
	})

	kept := make([]domain.Profile, 0, len(res.Profiles))
	for _, p := range res.Profiles {
		if exclude[p.ID] {
			continue
		}
		kept = append(kept, p)
	}

	a.logger.Debug("job-ad page",
		zap.Int("offset", cur.Offset),
		zap.Int("raw", res.Raw),
		zap.Int("kept", len(kept)),
		zap.Bool("has_more", hasMore),
	)
	return Page{Profiles: kept, HasMore: hasMore}, nil
}

type jobSearchResponse struct {
	Results []map[string]any `json:"results"`
	Jobs    []map[string]any `json:"jobs"`
}

func (a *JobAdAdapter) search(ctx context.Context, offset, limit int) (searchPage, error) {
	if err := a.limiter.Wait(ctx, jobSearchClass); err != nil {
		return searchPage{}, err
	}

	q := url.Values{}
	q.Set("q", BuildQuery(a.skills))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return searchPage{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "matchfeed/1.0 (+local)")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	res, err := a.hc.Do(req)
	if err != nil {
		return searchPage{}, fmt.Errorf("job search get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return searchPage{}, &fetch.StatusError{Code: res.StatusCode}
	}

	var body jobSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return searchPage{}, fetch.Terminalf("job search decode: %v", err)
	}

	records := body.Results
	if len(records) == 0 {
		records = body.Jobs
	}

	out := make([]domain.Profile, 0, len(records))
	for _, raw := range records {
		p, ok := a.mapRecord(raw)
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return searchPage{Profiles: out, Raw: len(records)}, nil
}

// jobRecord covers the simple fields; heterogeneous ones (skills, company,
// coordinates) are resolved by hand below.
type jobRecord struct {
	ID            string   `mapstructure:"id"`
	JobID         string   `mapstructure:"job_id"`
	Title         string   `mapstructure:"title"`
	Name          string   `mapstructure:"name"`
	Description   string   `mapstructure:"description"`
	URL           string   `mapstructure:"url"`
	RedirectURL   string   `mapstructure:"redirect_url"`
	CompanyName   string   `mapstructure:"company_name"`
	Employer      string   `mapstructure:"employer"`
	ContractType  string   `mapstructure:"contract_type"`
	Commitments   []string `mapstructure:"commitments"`
	MinExperience int      `mapstructure:"min_experience_years"`
	Industry      string   `mapstructure:"industry"`
}

func (a *JobAdAdapter) mapRecord(raw map[string]any) (domain.Profile, bool) {
	var rec jobRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.Profile{}, false
	}
	if err := dec.Decode(raw); err != nil {
		a.logger.Warn("dropping malformed job record", zap.Error(err))
		return domain.Profile{}, false
	}

	title := cleanText(firstNonEmpty(rec.Title, rec.Name))
	if title == "" {
		return domain.Profile{}, false
	}

	skills, legacy := jobSkills(raw)
	if len(skills) == 0 && len(legacy) == 0 {
		return domain.Profile{}, false
	}

	jobURL := firstNonEmpty(rec.URL, rec.RedirectURL)
	id := firstNonEmpty(rec.ID, rec.JobID)
	if id == "" {
		id = SynthesizeID("jobad", jobURL, title)
	}

	commitments := rec.Commitments
	if len(commitments) == 0 && rec.ContractType != "" {
		commitments = []string{rec.ContractType}
	}

	return domain.Profile{
		ID:           id,
		Source:       domain.SourceJobAd,
		Location:     jobLocation(raw),
		Skills:       skills,
		LegacySkills: legacy,
		JobAd: &domain.JobAdInfo{
			Title:         title,
			CompanyName:   jobCompany(raw, rec),
			Description:   StripHTML(rec.Description),
			URL:           jobURL,
			Commitments:   commitments,
			MinExperience: rec.MinExperience,
			Industry:      rec.Industry,
		},
	}, true
}

// jobSkills checks the locations external records are known to stash
// skill or requirement arrays in.
func jobSkills(raw map[string]any) ([]domain.Skill, []string) {
	candidates := []any{raw["skills"], raw["required_skills"], raw["requirements"]}
	if details, ok := raw["details"].(map[string]any); ok {
		candidates = append(candidates, details["skills"], details["requirements"])
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if skills, legacy := SkillsFromAny(c); len(skills) > 0 || len(legacy) > 0 {
			return skills, legacy
		}
	}
	return nil, nil
}

// jobCompany tries the possible company-name fields in rough order of
// trustworthiness.
func jobCompany(raw map[string]any, rec jobRecord) string {
	switch c := raw["company"].(type) {
	case string:
		if c != "" {
			return cleanText(c)
		}
	case map[string]any:
		if n := stringField(c, "display_name", "name"); n != "" {
			return cleanText(n)
		}
	}
	return cleanText(firstNonEmpty(rec.CompanyName, rec.Employer))
}

func jobLocation(raw map[string]any) domain.Location {
	if loc := LocationFromAny(raw["location"]); loc.Valid() || loc.Name != "" {
		return loc
	}
	if loc := LocationFromAny(raw["coordinates"]); loc.Valid() {
		return loc
	}
	loc := domain.Location{
		Lat: floatField(raw, "lat", "latitude"),
		Lon: floatField(raw, "lon", "lng", "longitude"),
	}
	return loc
}
