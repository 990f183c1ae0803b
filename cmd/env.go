package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/furnacex/intel-cli/internal/proximity"
	"github.com/furnacex/intel-cli/internal/registry"
	"github.com/furnacex/intel-cli/internal/store"
	"github.com/furnacex/intel-cli/pkg/geocode"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.SQLitePath
		if dsn == "" {
			dsn = "leads.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initResolver builds the geocode provider. Nominatim falls back to the
// offline gazetteer internally; both get the caching wrapper.
func initResolver() (geocode.Provider, error) {
	switch cfg.Geocode.Provider {
	case "gazetteer", "":
		return geocode.WithCache(geocode.NewGazetteer()), nil
	case "nominatim":
		remote := geocode.NewNominatim(
			geocode.WithBaseURL(cfg.Geocode.BaseURL),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithRateLimit(cfg.Geocode.RateRPS),
			geocode.WithMaxRetries(cfg.Geocode.MaxRetries),
			geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
		)
		// A dead Nominatim degrades to the offline gazetteer instead of
		// hammering it with per-lead retry storms.
		breaker := geocode.WithBreaker(remote, geocode.NewGazetteer(), 5, 30*time.Second)
		return geocode.WithCache(breaker), nil
	default:
		return nil, eris.Errorf("unsupported geocode provider: %s", cfg.Geocode.Provider)
	}
}

// initRouter loads the officer registry and wires it to the resolver.
// Registry failures are fatal: routing against an empty or invalid registry
// would silently misassign every lead.
func initRouter() (*proximity.Router, error) {
	officers, err := registry.Load(cfg.Registry.OfficersFile)
	if err != nil {
		return nil, eris.Wrap(err, "load officer registry")
	}
	resolver, err := initResolver()
	if err != nil {
		return nil, err
	}
	return proximity.NewRouter(officers, resolver)
}

// referenceTime returns the pinned scoring reference, or the wall clock when
// the config leaves it open.
func referenceTime() (time.Time, error) {
	if cfg.Pipeline.ReferenceDate == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", cfg.Pipeline.ReferenceDate)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse reference_date %q", cfg.Pipeline.ReferenceDate)
	}
	return t.UTC(), nil
}
