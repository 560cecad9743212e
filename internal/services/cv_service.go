package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sitio/internal/cache"
	"sitio/internal/core"
	"sitio/internal/storage"
)

// CVService serves and mutates the multilingual CV. Snapshots are cached per
// language; every mutation drops the whole cache so all three languages stay
// consistent.
type CVService struct {
	storage *storage.SQLiteRepository
	finance *FinanceService
	cache   *cache.LRUCache[core.CVSnapshot]
}

func NewCVService(storage *storage.SQLiteRepository, finance *FinanceService, ttl time.Duration) *CVService {
	return &CVService{
		storage: storage,
		finance: finance,
		cache:   NewSnapshotCache(ttl),
	}
}

// NewSnapshotCache builds the per-language snapshot cache. Three languages,
// so a tiny capacity is plenty.
func NewSnapshotCache(ttl time.Duration) *cache.LRUCache[core.CVSnapshot] {
	return cache.NewLRUCache[core.CVSnapshot](len(core.Languages()), ttl)
}

// SnapshotCache exposes the cache for cleanup registration.
func (s *CVService) SnapshotCache() *cache.LRUCache[core.CVSnapshot] {
	return s.cache
}

// Snapshot assembles the full single-language CV view: the five entity
// lists, the localized dictionary, and the current month's finances. The
// section queries run concurrently.
func (s *CVService) Snapshot(ctx context.Context, lang core.Language) (core.CVSnapshot, error) {
	if cached, ok := s.cache.Get(string(lang)); ok {
		return cached, nil
	}

	var snapshot core.CVSnapshot

	g, gctx := errgroup.WithContext(ctx)
	list := func(spec core.EntitySpec, dst *[]core.Row) {
		g.Go(func() error {
			rows, err := s.storage.ListLocalized(gctx, spec, lang)
			if err != nil {
				return err
			}
			*dst = rows
			return nil
		})
	}
	list(core.ExperienceSpec, &snapshot.Experience)
	list(core.EducationSpec, &snapshot.Education)
	list(core.ProjectSpec, &snapshot.Projects)
	list(core.SkillSpec, &snapshot.Skills)
	list(core.LanguageEntrySpec, &snapshot.Languages)

	g.Go(func() error {
		entries, err := s.storage.GetDictionary(gctx)
		if err != nil {
			return err
		}
		dict := make(map[string]string, len(entries))
		for key, entry := range entries {
			dict[key] = entry.Text(lang)
		}
		snapshot.Dictionary = dict
		return nil
	})

	g.Go(func() error {
		finance, err := s.finance.MonthFinance(gctx, core.CurrentMonthKey(time.Now()))
		if err != nil {
			return err
		}
		snapshot.Finance = finance
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.CVSnapshot{}, fmt.Errorf("assemble cv snapshot: %w", err)
	}

	s.cache.Set(string(lang), snapshot)
	return snapshot, nil
}

// List returns one entity's rows projected to a language.
func (s *CVService) List(ctx context.Context, spec core.EntitySpec, lang core.Language) ([]core.Row, error) {
	return s.storage.ListLocalized(ctx, spec, lang)
}

// Create inserts an entity row from values keyed by physical column. Every
// required column must be present and non-empty.
func (s *CVService) Create(ctx context.Context, spec core.EntitySpec, values map[string]any) (core.Row, error) {
	for _, col := range spec.RequiredColumns() {
		v, ok := values[col]
		if !ok {
			return nil, &core.MissingFieldError{Field: col}
		}
		if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
			return nil, &core.MissingFieldError{Field: col}
		}
	}

	row, err := s.storage.InsertLocalized(ctx, spec, values)
	if err != nil {
		return nil, err
	}
	s.cache.Purge()
	return row, nil
}

// Update patches one language's view of an entity row and returns the full
// stored row.
func (s *CVService) Update(ctx context.Context, spec core.EntitySpec, id int64, lang core.Language, patch map[string]any) (core.Row, error) {
	row, err := s.storage.UpdateLocalized(ctx, spec, id, lang, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Purge()
	return row, nil
}

// Delete removes an entity row.
func (s *CVService) Delete(ctx context.Context, spec core.EntitySpec, id int64) error {
	if err := s.storage.DeleteLocalized(ctx, spec, id); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}

// UpdateContact writes the provided contact fields in one language. Only the
// known contact keys are accepted.
func (s *CVService) UpdateContact(ctx context.Context, lang core.Language, fields map[string]string) error {
	if len(fields) == 0 {
		return core.ErrEmptyUpdate
	}
	for key := range fields {
		if !isContactKey(key) {
			return &core.InvalidFieldError{Field: key}
		}
	}
	for key, text := range fields {
		if err := s.storage.SetDictionaryText(ctx, key, lang, text); err != nil {
			return err
		}
	}
	s.cache.Purge()
	return nil
}

// Profile returns the profile description in one language.
func (s *CVService) Profile(ctx context.Context, lang core.Language) (string, error) {
	entry, err := s.storage.GetDictionaryEntry(ctx, core.ProfileKey)
	if err != nil {
		return "", err
	}
	text := entry.Text(lang)
	if text == "" {
		return "", fmt.Errorf("profile description: %w", core.ErrNotFound)
	}
	return text, nil
}

// UpdateProfile writes the profile description in one language.
func (s *CVService) UpdateProfile(ctx context.Context, lang core.Language, text string) error {
	if strings.TrimSpace(text) == "" {
		return &core.MissingFieldError{Field: "description"}
	}
	if err := s.storage.SetDictionaryText(ctx, core.ProfileKey, lang, text); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}

func isContactKey(key string) bool {
	for _, k := range core.ContactKeys {
		if k == key {
			return true
		}
	}
	return false
}
