package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sitio/internal/core"
	"sitio/internal/storage"
)

// VisitorService logs site visits and aggregates them for the stats view.
type VisitorService struct {
	storage *storage.SQLiteRepository
	now     func() time.Time
}

func NewVisitorService(storage *storage.SQLiteRepository) *VisitorService {
	return &VisitorService{
		storage: storage,
		now:     time.Now,
	}
}

// Log stores one visit, stamping it with the current time when the payload
// carries no timestamp. Every geolocation field is optional. The visit date
// is always stamped here; the client timestamp is kept only as raw text.
func (s *VisitorService) Log(ctx context.Context, v core.Visit) error {
	now := s.now().UTC()
	if v.Timestamp == "" {
		v.Timestamp = now.Format(time.RFC3339)
	}
	v.Date = now.Format(core.DateLayout)
	return s.storage.InsertVisit(ctx, v)
}

// Stats assembles the aggregate visitor view. The four aggregation queries
// run concurrently.
func (s *VisitorService) Stats(ctx context.Context) (core.VisitorStats, error) {
	now := s.now()
	stats := core.VisitorStats{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.storage.CountVisitsByMonth(gctx, core.CurrentMonthKey(now))
		if err != nil {
			return err
		}
		stats.MonthlyUsers = n
		return nil
	})

	g.Go(func() error {
		n, err := s.storage.CountVisitsByDay(gctx, now.Format(core.DateLayout))
		if err != nil {
			return err
		}
		stats.TodayUsers = n
		return nil
	})

	g.Go(func() error {
		countries, err := s.storage.CountryCityCounts(gctx)
		if err != nil {
			return err
		}
		stats.Countries = countries
		return nil
	})

	g.Go(func() error {
		locations, err := s.storage.LocationStats(gctx)
		if err != nil {
			return err
		}
		stats.Locations = locations
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.VisitorStats{}, fmt.Errorf("assemble visitor stats: %w", err)
	}
	return stats, nil
}
