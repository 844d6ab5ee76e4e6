package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"market-scout/config"
	"market-scout/scraper/vinted"
	"market-scout/services"
	"market-scout/storage"
	"market-scout/utils"
)

// app holds everything a command needs, built once from the environment.
type app struct {
	cfg         *config.Config
	logger      *utils.Logger
	catalog     *config.Catalog
	events      storage.EventStore
	subscribers *storage.SubscriberStore

	market  *services.MarketService
	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	opts := utils.LoggerOptions{
		Writer: os.Stderr,
		Level:  utils.ParseLevel(cfg.LogLevel),
	}
	if cfg.FluentEnabled {
		client, err := utils.NewFluentClient(cfg.FluentHost, cfg.FluentPort, "market-scout")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fluent: %v (continuing without it)\n", err)
		} else {
			opts.Fluent = client
			a.closers = append(a.closers, func() { _ = client.Close() })
		}
	}
	a.logger = utils.NewLoggerWithOptions(opts)
	if opts.Fluent != nil {
		a.logger.Debug("[app] Shipping logs to fluent at %s:%d", cfg.FluentHost, cfg.FluentPort)
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.catalog = catalog

	csvLog, err := storage.NewCSVEventLog(cfg.DataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open event log: %w", err)
	}
	var mirrors []storage.EventStore
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresEventLog(ctx, cfg.DSN())
		if err != nil {
			a.logger.Warn("[app] PostgreSQL unavailable, events stay in CSV only: %v", err)
		} else {
			mirrors = append(mirrors, pg)
		}
	}
	a.events = storage.NewMirroredEventLog(a.logger.With("component", "events"), csvLog, mirrors...)
	a.closers = append(a.closers, func() { _ = a.events.Close() })

	a.subscribers = storage.NewSubscriberStore(cfg.DataDir)
	return a, nil
}

// marketService builds the scraper pipeline on first use, so commands that never
// search do not start a browser.
func (a *app) marketService() (*services.MarketService, error) {
	if a.market != nil {
		return a.market, nil
	}

	var source vinted.PageSource
	switch strings.ToLower(a.cfg.RenderMode) {
	case "browser":
		browser, err := vinted.NewBrowserSource(a.cfg.ChromeBin, a.cfg.UserAgent, a.cfg.FetchTimeout, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, browser.Close)
		source = browser
	case "http", "":
		source = vinted.NewHTTPSource(a.cfg.FetchTimeout, a.cfg.UserAgent)
	default:
		return nil, fmt.Errorf("unknown RENDER_MODE %q (want http or browser)", a.cfg.RenderMode)
	}

	scraper, err := vinted.New(a.cfg.MarketBaseURL, source, a.logger.With("component", "vinted"),
		vinted.WithDedupe(a.cfg.DedupeLinks))
	if err != nil {
		return nil, err
	}

	a.market = services.NewMarketService(scraper, a.events, a.logger, services.MarketServiceOptions{
		CacheSize: a.cfg.CacheSize,
		CacheTTL:  a.cfg.CacheTTL,
		Scope:     services.ParseStatsScope(a.cfg.StatsScope),
	})
	return a.market, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
