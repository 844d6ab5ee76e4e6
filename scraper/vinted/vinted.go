package vinted

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"market-scout/models"
	"market-scout/utils"
)

var (
	ErrEmptyQuery   = errors.New("search query is empty")
	ErrInvalidPages = errors.New("page count must be at least 1")
)

// Scraper drives paginated catalog searches: one request per page, in order, with a
// blocking pause between requests. Failed pages are skipped.
type Scraper struct {
	baseURL   string
	source    PageSource
	extractor *Extractor
	logger    *utils.Logger
	dedupe    bool

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithDedupe drops listings whose link was already seen earlier in the same search.
func WithDedupe(enabled bool) Option {
	return func(s *Scraper) { s.dedupe = enabled }
}

// WithSleep replaces the pause implementation.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Scraper) { s.sleep = sleep }
}

// New creates a Scraper for the marketplace at baseURL.
func New(baseURL string, source PageSource, logger *utils.Logger, opts ...Option) (*Scraper, error) {
	extractor, err := NewExtractor(baseURL, logger)
	if err != nil {
		return nil, err
	}
	s := &Scraper{
		baseURL:   strings.TrimRight(baseURL, "/"),
		source:    source,
		extractor: extractor,
		logger:    logger,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SearchURL builds the catalog URL for one page of a query.
func (s *Scraper) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/catalog?search_text=%s&page=%d", s.baseURL, url.QueryEscape(query), page)
}

// Search fetches pages 1..pages for query and returns all listings in page order, then
// document order. It only errors on invalid arguments; an all-failed run returns an
// empty slice. Once ctx is done no further pages are requested.
func (s *Scraper) Search(ctx context.Context, query string, pages int, pause time.Duration) ([]models.Listing, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if pages < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPages, pages)
	}
	if pause < 0 {
		pause = 0
	}

	s.logger.Info("[vinted] Searching %q — %d page(s), pause %s", query, pages, pause)

	var seen utils.LinkSet
	if s.dedupe {
		seen = utils.LinkSet{}
	}
	dropped := 0

	listings := make([]models.Listing, 0)
	for page := 1; page <= pages; page++ {
		if page > 1 && pause > 0 {
			s.sleep(pause)
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn("[vinted] Search %q stopped before page %d: %v", query, page, err)
			break
		}

		pageURL := s.SearchURL(query, page)
		body, err := s.source.Fetch(ctx, pageURL)
		if err != nil {
			s.logger.Warn("[vinted] Page %d skipped: %v", page, err)
			continue
		}

		pageListings, err := s.extractor.Extract(body)
		if err != nil {
			s.logger.Warn("[vinted] Page %d unreadable: %v", page, err)
			continue
		}

		kept := 0
		for _, l := range pageListings {
			if seen != nil && !seen.Add(l.Link) {
				dropped++
				continue
			}
			listings = append(listings, l)
			kept++
		}
		s.logger.Info("[vinted] Page %d done — %d listings (%d total)", page, kept, len(listings))
	}

	if dropped > 0 {
		s.logger.Info("[vinted] Dropped %d repeated link(s)", dropped)
	}
	s.logger.Info("[vinted] Search %q complete — %d listings", query, len(listings))
	return listings, nil
}
