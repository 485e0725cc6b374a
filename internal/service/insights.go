// Package service contains the business logic of the insights API.
// Services orchestrate flight sources, the snapshot repo and the cache;
// no SQL or HTTP lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/flight-dashboard/internal/analysis"
	"github.com/pkordes/flight-dashboard/internal/domain"
	"github.com/pkordes/flight-dashboard/internal/repo"
)

// FlightSource yields raw flights for a query.
// Implemented by *aviationstack.Client and *scraper.Scraper.
type FlightSource interface {
	Flights(ctx context.Context, q domain.Query) ([]domain.Flight, error)
}

// NamedSource is a FlightSource plus the name stored with its snapshots.
type NamedSource struct {
	Name   string
	Source FlightSource
}

// InsightsCache is implemented by *cache.InsightsCache.
type InsightsCache interface {
	Get(ctx context.Context, q domain.Query) (domain.Insights, bool, error)
	Set(ctx context.Context, q domain.Query, data domain.Insights) error
}

// Where an Insights result came from.
const (
	OriginCache    = "cache"
	OriginSnapshot = "snapshot"
	OriginNone     = "none"
)

// Result is an analysis plus the name of what produced its flights: a
// source name, OriginCache, OriginSnapshot or OriginNone.
type Result struct {
	domain.Insights
	From string
}

// InsightsService answers insights queries.
type InsightsService struct {
	sources   []NamedSource
	snapshots repo.SnapshotRepo
	cache     InsightsCache
	logger    *slog.Logger
}

// NewInsightsService constructs an InsightsService. Sources are tried in
// order. snapshots and cache may be nil.
func NewInsightsService(sources []NamedSource, snapshots repo.SnapshotRepo, cache InsightsCache, logger *slog.Logger) *InsightsService {
	return &InsightsService{sources: sources, snapshots: snapshots, cache: cache, logger: logger}
}

// Insights returns the analysis for q.
//
// A cached analysis is returned as is. Otherwise the sources are asked in
// order until one returns flights; those flights are saved as a snapshot.
// When every source fails, the latest snapshot for the same route and day
// is analyzed instead, and when there is none the analysis is empty.
// Source, repo and cache failures are logged and never returned; the only
// error is a done ctx.
func (s *InsightsService) Insights(ctx context.Context, q domain.Query) (Result, error) {
	log := s.logger.With("origin", q.Origin, "destination", q.Destination, "day", q.Day())

	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, q)
		switch {
		case err != nil:
			log.WarnContext(ctx, "insights cache read failed", "error", err)
		case ok:
			return Result{Insights: data, From: OriginCache}, nil
		}
	}

	flights, from, live := s.fetch(ctx, q, log)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("service.InsightsService.Insights: %w", err)
	}

	res := Result{Insights: analysis.Analyze(flights), From: from}
	log.InfoContext(ctx, "insights computed", "from", from, "flights", len(flights))

	if live && s.cache != nil {
		if err := s.cache.Set(ctx, q, res.Insights); err != nil {
			log.WarnContext(ctx, "insights cache write failed", "error", err)
		}
	}
	return res, nil
}

// fetch asks the sources in order. live is false when the flights did not
// come from a source that answered, which keeps failures out of the cache.
func (s *InsightsService) fetch(ctx context.Context, q domain.Query, log *slog.Logger) (flights []domain.Flight, from string, live bool) {
	answered := ""
	for _, src := range s.sources {
		got, err := src.Source.Flights(ctx, q)
		if err != nil {
			log.WarnContext(ctx, "flight source failed", "source", src.Name, "error", err)
			continue
		}
		if answered == "" {
			answered = src.Name
		}
		if len(got) == 0 {
			log.InfoContext(ctx, "flight source returned no flights", "source", src.Name)
			continue
		}

		s.save(ctx, q, src.Name, got, log)
		return got, src.Name, true
	}

	if answered != "" {
		return nil, answered, true
	}
	return s.latest(ctx, q, log)
}

func (s *InsightsService) save(ctx context.Context, q domain.Query, source string, flights []domain.Flight, log *slog.Logger) {
	if s.snapshots == nil {
		return
	}
	if _, err := s.snapshots.Save(ctx, q, source, flights); err != nil {
		log.WarnContext(ctx, "saving snapshot failed", "source", source, "error", err)
	}
}

func (s *InsightsService) latest(ctx context.Context, q domain.Query, log *slog.Logger) ([]domain.Flight, string, bool) {
	if s.snapshots == nil {
		return nil, OriginNone, false
	}

	snap, err := s.snapshots.Latest(ctx, q)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, OriginNone, false
	case err != nil:
		log.WarnContext(ctx, "loading snapshot failed", "error", err)
		return nil, OriginNone, false
	}

	log.InfoContext(ctx, "serving stored snapshot", "snapshot_id", snap.ID, "taken_at", snap.CreatedAt)
	return snap.Flights, OriginSnapshot, false
}
