package storage

import (
	"errors"
	"testing"

	"sitio/internal/core"
)

func TestBuildLocalizedUpdate(t *testing.T) {
	tests := []struct {
		name      string
		spec      core.EntitySpec
		lang      core.Language
		patch     map[string]any
		wantQuery string
		wantArgs  []any
		wantErr   error
	}{
		{
			name:      "localized field routes to language column",
			spec:      core.ExperienceSpec,
			lang:      core.LangES,
			patch:     map[string]any{"company": "Acme"},
			wantQuery: "UPDATE experience SET company_es = ? WHERE id = ?",
			wantArgs:  []any{"Acme"},
		},
		{
			name:      "invariant field keeps its column",
			spec:      core.ProjectSpec,
			lang:      core.LangIT,
			patch:     map[string]any{"technologies": "Go, SQLite"},
			wantQuery: "UPDATE projects SET technologies = ? WHERE id = ?",
			wantArgs:  []any{"Go, SQLite"},
		},
		{
			name: "multiple fields in deterministic order",
			spec: core.EducationSpec,
			lang: core.LangEN,
			patch: map[string]any{
				"institution": "MIT",
				"duration":    "2018-2022",
				"degree":      "BSc",
			},
			wantQuery: "UPDATE education SET degree_en = ?, duration = ?, institution_en = ? WHERE id = ?",
			wantArgs:  []any{"BSc", "2018-2022", "MIT"},
		},
		{
			name:    "empty patch",
			spec:    core.SkillSpec,
			lang:    core.LangEN,
			patch:   map[string]any{},
			wantErr: core.ErrEmptyUpdate,
		},
		{
			name:    "unknown field rejected",
			spec:    core.SkillSpec,
			lang:    core.LangEN,
			patch:   map[string]any{"category": "Backend", "id": 99},
			wantErr: &core.InvalidFieldError{},
		},
		{
			name:    "physical column name rejected",
			spec:    core.ExperienceSpec,
			lang:    core.LangEN,
			patch:   map[string]any{"company_es": "injected"},
			wantErr: &core.InvalidFieldError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildLocalizedUpdate(tt.spec, tt.lang, tt.patch)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("BuildLocalizedUpdate() error = nil, want %v", tt.wantErr)
				}
				var invalid *core.InvalidFieldError
				if _, ok := tt.wantErr.(*core.InvalidFieldError); ok {
					if !errors.As(err, &invalid) {
						t.Fatalf("BuildLocalizedUpdate() error = %v, want InvalidFieldError", err)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildLocalizedUpdate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("BuildLocalizedUpdate() error = %v", err)
			}
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
