package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"matchfeed-engine/internal/domain"
	"matchfeed-engine/internal/geo"
	"matchfeed-engine/internal/pagestate"
)

// CollectionAdapter pages through one of the server-paginated document
// collections (seekers or businesses), newest first, resuming from the
// stored cursor.
type CollectionAdapter struct {
	source  domain.Source
	baseURL string
	hc      *http.Client
	state   *pagestate.Store
	geo     *geo.Client // optional; fills missing location names
	logger  *zap.Logger
}

func NewCollection(src domain.Source, baseURL string, timeout time.Duration, state *pagestate.Store, geocoder *geo.Client, logger *zap.Logger) *CollectionAdapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionAdapter{
		source:  src,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		state:   state,
		geo:     geocoder,
		logger:  logger,
	}
}

func (a *CollectionAdapter) Name() string          { return "collection:" + string(a.source) }
func (a *CollectionAdapter) Source() domain.Source { return a.source }

type collectionPage struct {
	Items      []map[string]any `json:"items"`
	NextCursor string           `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
}

// collectionItem covers the stable fields; skills and location stay
// untyped because the collections encode them several ways.
type collectionItem struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Headline    string   `mapstructure:"headline"`
	CompanyName string   `mapstructure:"company_name"`
	Industry    string   `mapstructure:"industry"`
	Industries  []string `mapstructure:"industries"`
	Commitments []string `mapstructure:"commitments"`
	Experience  int      `mapstructure:"experience_years"`
	Skills      any      `mapstructure:"skills"`
	Location    any      `mapstructure:"location"`
}

func (a *CollectionAdapter) FetchPage(ctx context.Context, exclude map[string]bool, pageSize int) (Page, error) {
	cur := a.state.Get(a.source)
	if !cur.HasMore {
		return Page{}, nil
	}

	body, err := a.fetch(ctx, cur.Token, pageSize)
	if err != nil {
		return Page{}, err
	}

	profiles := make([]domain.Profile, 0, len(body.Items))
	for _, raw := range body.Items {
		p, ok := a.normalize(ctx, raw)
		if !ok {
			continue
		}
		if exclude[p.ID] {
			continue
		}
		profiles = append(profiles, p)
	}

	a.state.Advance(a.source, pagestate.Cursor{
		Token:   body.NextCursor,
		HasMore: body.HasMore,
	})

	a.logger.Debug("collection page",
		zap.String("source", string(a.source)),
		zap.Int("raw", len(body.Items)),
		zap.Int("kept", len(profiles)),
		zap.Bool("has_more", body.HasMore),
	)
	return Page{Profiles: profiles, HasMore: body.HasMore}, nil
}

func (a *CollectionAdapter) fetch(ctx context.Context, cursor string, pageSize int) (*collectionPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("order", "created_desc")
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", a.baseURL, a.collectionPath(), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "matchfeed/1.0 (+local)")

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("collection get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("collection status %d", res.StatusCode)
	}

	var body collectionPage
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("collection decode: %w", err)
	}
	return &body, nil
}

func (a *CollectionAdapter) collectionPath() string {
	if a.source == domain.SourceBusiness {
		return "businesses"
	}
	return "seekers"
}

func (a *CollectionAdapter) normalize(ctx context.Context, raw map[string]any) (domain.Profile, bool) {
	var item collectionItem
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &item,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.Profile{}, false
	}
	if err := dec.Decode(raw); err != nil {
		a.logger.Warn("dropping malformed collection record", zap.Error(err))
		return domain.Profile{}, false
	}
	if item.ID == "" {
		return domain.Profile{}, false
	}

	skills, legacy := SkillsFromAny(item.Skills)
	if len(skills) == 0 && len(legacy) == 0 {
		// No resolvable skills means nothing to score against.
		return domain.Profile{}, false
	}

	loc := LocationFromAny(item.Location)
	if loc.Valid() && loc.Name == "" && a.geo != nil {
		loc.Name = a.geo.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	}

	p := domain.Profile{
		ID:           item.ID,
		Source:       a.source,
		Location:     loc,
		Skills:       skills,
		LegacySkills: legacy,
	}
	industries := item.Industries
	if len(industries) == 0 && item.Industry != "" {
		industries = []string{item.Industry}
	}

	switch a.source {
	case domain.SourceBusiness:
		industry := item.Industry
		if industry == "" && len(industries) > 0 {
			industry = industries[0]
		}
		p.Business = &domain.BusinessInfo{
			CompanyName: firstNonEmpty(item.CompanyName, item.Name),
			Industry:    industry,
			Commitments: item.Commitments,
		}
	default:
		p.Seeker = &domain.SeekerInfo{
			Name:            item.Name,
			Headline:        item.Headline,
			ExperienceYears: item.Experience,
			Industries:      industries,
			Commitments:     item.Commitments,
		}
	}
	return p, true
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if x != "" {
			return x
		}
	}
	return ""
}
