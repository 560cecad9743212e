package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sitio/internal/core"
	"sitio/internal/storage"
)

// RateFetcher retrieves fresh EUR-based rates from the external provider.
type RateFetcher interface {
	FetchEUR(ctx context.Context) (core.RateTable, error)
}

// RatesService serves EUR exchange rates, refreshing from the provider at
// most once per calendar day.
type RatesService struct {
	storage *storage.SQLiteRepository
	fetcher RateFetcher
	now     func() time.Time
}

func NewRatesService(storage *storage.SQLiteRepository, fetcher RateFetcher) *RatesService {
	return &RatesService{
		storage: storage,
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Rates returns the current rate table, refreshing it first when today's
// fetch has not happened yet. When the provider is down, yesterday's stored
// rates are served instead; only an empty store surfaces the failure.
func (s *RatesService) Rates(ctx context.Context) (core.RateTable, error) {
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}

	rates, err := s.storage.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, core.ErrNoRates
	}
	return rates, nil
}

func (s *RatesService) ensureFresh(ctx context.Context) error {
	today := s.now().Format(core.DateLayout)

	last, err := s.storage.LastRateUpdate(ctx)
	if err != nil {
		return fmt.Errorf("last rate update: %w", err)
	}
	if last == today {
		return nil
	}

	fresh, err := s.fetcher.FetchEUR(ctx)
	if err != nil {
		// Stale rates beat no rates. An empty store has nothing to fall
		// back on, so the upstream failure surfaces.
		if last != "" {
			slog.WarnContext(ctx, "Rate refresh failed, serving stored rates",
				"last_updated", last,
				"error", err)
			return nil
		}
		return err
	}

	if err := s.storage.UpsertRates(ctx, core.DefaultCurrency, fresh, today); err != nil {
		return fmt.Errorf("store rates: %w", err)
	}

	slog.InfoContext(ctx, "Exchange rates refreshed",
		"currencies", len(fresh),
		"date", today)
	return nil
}
