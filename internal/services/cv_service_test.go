package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitio/internal/core"
)

func newTestCVService(t *testing.T) *CVService {
	t.Helper()
	repo := newTestStorage(t)
	finance := NewFinanceService(repo, nil)
	return NewCVService(repo, finance, time.Minute)
}

func skillValues(category string) map[string]any {
	values := map[string]any{"skills": "Go, SQL"}
	for _, lang := range core.Languages() {
		values[core.LocalizedColumn("category", lang)] = category + " " + string(lang)
	}
	return values
}

func TestSnapshotAssemblesAllSections(t *testing.T) {
	svc := newTestCVService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.SkillSpec, skillValues("Backend")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := svc.UpdateContact(ctx, core.LangEN, map[string]string{"email": "me@example.com"}); err != nil {
		t.Fatalf("UpdateContact() error = %v", err)
	}

	snapshot, err := svc.Snapshot(ctx, core.LangES)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if len(snapshot.Skills) != 1 || snapshot.Skills[0]["category"] != "Backend es" {
		t.Errorf("Skills = %+v, want Spanish projection", snapshot.Skills)
	}
	// English text falls back when the Spanish cell is empty.
	if snapshot.Dictionary["email"] != "me@example.com" {
		t.Errorf("Dictionary email = %q, want English fallback", snapshot.Dictionary["email"])
	}
	if snapshot.Finance.Income.Currency != core.DefaultCurrency {
		t.Errorf("Finance income = %+v, want default", snapshot.Finance.Income)
	}
	if snapshot.Experience == nil || snapshot.Education == nil || snapshot.Projects == nil || snapshot.Languages == nil {
		t.Error("empty sections should be empty slices, not nil")
	}
}

func TestSnapshotCacheInvalidatedByMutation(t *testing.T) {
	svc := newTestCVService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.SkillSpec, skillValues("Backend")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, err := svc.Snapshot(ctx, core.LangEN)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(first.Skills) != 1 {
		t.Fatalf("Skills = %d, want 1", len(first.Skills))
	}

	if _, err := svc.Create(ctx, core.SkillSpec, skillValues("Frontend")); err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	second, err := svc.Snapshot(ctx, core.LangEN)
	if err != nil {
		t.Fatalf("second Snapshot() error = %v", err)
	}
	if len(second.Skills) != 2 {
		t.Errorf("Skills after mutation = %d, want 2 (cache invalidated)", len(second.Skills))
	}
}

func TestCreateRequiresAllLanguageVariants(t *testing.T) {
	svc := newTestCVService(t)

	values := skillValues("Backend")
	delete(values, "category_it")

	_, err := svc.Create(context.Background(), core.SkillSpec, values)
	var missing *core.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("Create() error = %v, want MissingFieldError", err)
	}
	if missing.Field != "category_it" {
		t.Errorf("missing field = %q, want category_it", missing.Field)
	}
}

func TestCreateAllowsOptionalLink(t *testing.T) {
	svc := newTestCVService(t)

	values := map[string]any{"technologies": "Go"}
	for _, lang := range core.Languages() {
		values[core.LocalizedColumn("name", lang)] = "Site " + string(lang)
		values[core.LocalizedColumn("description", lang)] = "Desc " + string(lang)
	}

	row, err := svc.Create(context.Background(), core.ProjectSpec, values)
	if err != nil {
		t.Fatalf("Create() without link error = %v", err)
	}
	if row["technologies"] != "Go" {
		t.Errorf("technologies = %v, want Go", row["technologies"])
	}
}

func TestUpdateContactRejectsUnknownKey(t *testing.T) {
	svc := newTestCVService(t)
	ctx := context.Background()

	err := svc.UpdateContact(ctx, core.LangEN, map[string]string{"twitter": "@me"})
	var invalid *core.InvalidFieldError
	if !errors.As(err, &invalid) {
		t.Errorf("UpdateContact() error = %v, want InvalidFieldError", err)
	}

	if err := svc.UpdateContact(ctx, core.LangEN, map[string]string{}); !errors.Is(err, core.ErrEmptyUpdate) {
		t.Errorf("empty contact update error = %v, want ErrEmptyUpdate", err)
	}
}

func TestProfileLifecycle(t *testing.T) {
	svc := newTestCVService(t)
	ctx := context.Background()

	// Seeded but empty: reads as missing.
	if _, err := svc.Profile(ctx, core.LangEN); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Profile() on empty entry error = %v, want ErrNotFound", err)
	}

	if err := svc.UpdateProfile(ctx, core.LangEN, "Software engineer."); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	text, err := svc.Profile(ctx, core.LangIT)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if text != "Software engineer." {
		t.Errorf("Profile(it) = %q, want English fallback", text)
	}

	if err := svc.UpdateProfile(ctx, core.LangEN, "  "); err == nil {
		t.Error("UpdateProfile() with blank text should fail")
	}
}
