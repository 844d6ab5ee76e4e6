package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"market-scout/models"
	"market-scout/scraper/vinted"
	"market-scout/utils"
)

// MaxPages caps how many catalog pages a single search may request.
const MaxPages = 5

// StatsScope selects which listings feed the reference average.
type StatsScope string

const (
	// ScopeFiltered aggregates only the listings that passed the filters.
	ScopeFiltered StatsScope = "filtered"
	// ScopeAll aggregates every fetched listing, filters notwithstanding.
	ScopeAll StatsScope = "all"
)

// ParseStatsScope maps a config value to a scope, defaulting to ScopeFiltered.
func ParseStatsScope(s string) StatsScope {
	if StatsScope(strings.ToLower(strings.TrimSpace(s))) == ScopeAll {
		return ScopeAll
	}
	return ScopeFiltered
}

// Searcher fetches raw listings for a query. *vinted.Scraper implements it.
type Searcher interface {
	Search(ctx context.Context, query string, pages int, pause time.Duration) ([]models.Listing, error)
}

// SearchRecorder persists search events.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, ev models.SearchEvent) error
}

// SearchRequest is one user-issued market search.
type SearchRequest struct {
	Query string
	Filter
	Pages int
	Pause time.Duration
	User  string
}

type cacheKey struct {
	query string
	pages int
	pause time.Duration
}

// MarketServiceOptions configures NewMarketService.
type MarketServiceOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	Scope     StatsScope
}

// MarketService runs fetch → filter → aggregate → recommend and keeps recent raw
// results in a TTL cache keyed by (query, pages, pause).
type MarketService struct {
	searcher Searcher
	recorder SearchRecorder
	cache    *expirable.LRU[cacheKey, []models.Listing]
	scope    StatsScope
	logger   *utils.Logger
	now      func() time.Time
}

// NewMarketService wires a MarketService. recorder may be nil.
func NewMarketService(searcher Searcher, recorder SearchRecorder, logger *utils.Logger, opts MarketServiceOptions) *MarketService {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.Scope == "" {
		opts.Scope = ScopeFiltered
	}
	return &MarketService{
		searcher: searcher,
		recorder: recorder,
		cache:    expirable.NewLRU[cacheKey, []models.Listing](opts.CacheSize, nil, opts.CacheTTL),
		scope:    opts.Scope,
		logger:   logger,
		now:      time.Now,
	}
}

// Search answers req. An empty market yields a result with no listings and nil Stats.
func (s *MarketService) Search(ctx context.Context, req SearchRequest) (*models.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, vinted.ErrEmptyQuery
	}
	if req.Pages < 1 || req.Pages > MaxPages {
		return nil, fmt.Errorf("%w: got %d, allowed 1-%d", vinted.ErrInvalidPages, req.Pages, MaxPages)
	}
	if req.Pause < 0 {
		req.Pause = 0
	}

	all, err := s.fetch(ctx, query, req.Pages, req.Pause)
	if err != nil {
		return nil, err
	}

	if len(all) > 0 {
		s.recordSearch(ctx, query, req)
	}

	filtered := req.Filter.Apply(all)
	statsInput := filtered
	if s.scope == ScopeAll {
		statsInput = all
	}
	stats := AnalyzePrices(statsInput)

	result := &models.SearchResult{
		Query:     query,
		Brand:     req.Brand,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		Listings:  Annotate(filtered, stats),
		Stats:     stats,
		FetchedAt: s.now().UTC(),
	}
	if stats != nil {
		result.Saturation = SaturationLabel(stats.Count)
	}

	s.logger.Info("[market] %q → %d fetched, %d after filters", query, len(all), len(filtered))
	return result, nil
}

// Annotate pairs each listing with its recommendation against stats. With nil stats the
// listings carry no recommendation.
func Annotate(listings []models.Listing, stats *models.MarketStats) []models.AnnotatedListing {
	out := make([]models.AnnotatedListing, 0, len(listings))
	for _, l := range listings {
		row := models.AnnotatedListing{Listing: l}
		if stats != nil {
			rec := Recommend(l.Price, stats.Average)
			row.Recommendation = &rec
		}
		out = append(out, row)
	}
	return out
}

func (s *MarketService) fetch(ctx context.Context, query string, pages int, pause time.Duration) ([]models.Listing, error) {
	key := cacheKey{query: query, pages: pages, pause: pause}
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("[market] Cache hit for %q (%d pages)", query, pages)
		return cached, nil
	}

	listings, err := s.searcher.Search(ctx, query, pages, pause)
	if err != nil {
		return nil, fmt.Errorf("market: search %q: %w", query, err)
	}
	// A cancelled run may be partial; do not let it shadow a full one.
	if ctx.Err() == nil {
		s.cache.Add(key, listings)
	}
	return listings, nil
}

func (s *MarketService) recordSearch(ctx context.Context, query string, req SearchRequest) {
	if s.recorder == nil {
		return
	}
	brand := req.Brand
	if strings.TrimSpace(brand) == "" {
		brand = BrandAll
	}
	user := req.User
	if user == "" {
		user = "admin"
	}
	ev := models.SearchEvent{Timestamp: s.now().UTC(), Query: query, Brand: brand, User: user}
	if err := s.recorder.RecordSearch(ctx, ev); err != nil {
		s.logger.Warn("[market] Could not record search %q: %v", query, err)
	}
}
