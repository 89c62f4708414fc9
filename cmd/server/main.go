package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/juliecor/zonal-backend/internal/cache"
	"github.com/juliecor/zonal-backend/internal/config"
	"github.com/juliecor/zonal-backend/internal/dataset"
	"github.com/juliecor/zonal-backend/internal/facility"
	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/geocode"
	httpapi "github.com/juliecor/zonal-backend/internal/http"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/overpass"
	"github.com/juliecor/zonal-backend/internal/roads"
	"github.com/juliecor/zonal-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "zonal-backend").Logger()

	fetcher := &fetch.Client{
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		UserAgent:  cfg.UserAgent,
		Logger:     logger,
	}
	geocoder := &geocode.Client{
		SearchEndpoints:  cfg.SearchEndpoints(),
		ReverseEndpoints: cfg.ReverseEndpoints(),
		Fetcher:          fetcher,
		Logger:           logger,
	}
	spatial := &overpass.Client{
		Endpoints: cfg.OverpassEndpoints(),
		Fetcher:   fetcher,
		Logger:    logger,
	}

	locator := &service.Locator{
		Geocoder: geocoder,
		Datasets: &dataset.Store{
			ManifestURL: cfg.DatasetManifestURL,
			HTTPClient:  &http.Client{Timeout: cfg.RequestTimeout},
			Records:     cache.New[[]models.Record](),
			Logger:      logger,
		},
		Facilities: &facility.Aggregator{
			Spatial: spatial,
			Reports: cache.New[models.FacilityReport](),
			Logger:  logger,
		},
		Geometry: &roads.GeometryResolver{
			Spatial:  spatial,
			Geocoder: geocoder,
			Anchors: &roads.AnchorResolver{
				Geocoder: geocoder,
				Anchors:  cache.New[models.Anchor](),
				Logger:   logger,
			},
			Points:     cache.New[models.RecordPoint](),
			Highlights: cache.New[models.HighlightLine](),
			Logger:     logger,
		},
		Logger: logger,
	}

	router := httpapi.Router(cfg, locator, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
