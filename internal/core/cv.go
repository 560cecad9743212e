package core

// Row is a generic record as read from the store, keyed by physical column.
type Row map[string]any

// EntitySpec is the static allow-list describing a CV entity: which logical
// fields are stored once per language and which are language-invariant.
// Column names used in SQL are only ever derived from these compiled-in
// specs, never from request input.
type EntitySpec struct {
	Table string

	// Localized fields are stored as <field>_<lang>, one column per language.
	Localized []string

	// Invariant fields hold a single value regardless of language.
	Invariant []string

	// OptionalInvariant marks invariant fields that may be absent at creation.
	OptionalInvariant map[string]bool
}

var (
	ExperienceSpec = EntitySpec{
		Table:     "experience",
		Localized: []string{"company", "role", "duration", "description"},
	}

	EducationSpec = EntitySpec{
		Table:     "education",
		Localized: []string{"institution", "degree"},
		Invariant: []string{"duration"},
	}

	ProjectSpec = EntitySpec{
		Table:             "projects",
		Localized:         []string{"name", "description"},
		Invariant:         []string{"technologies", "link"},
		OptionalInvariant: map[string]bool{"link": true},
	}

	SkillSpec = EntitySpec{
		Table:     "skills",
		Localized: []string{"category"},
		Invariant: []string{"skills"},
	}

	LanguageEntrySpec = EntitySpec{
		Table:     "languages",
		Localized: []string{"language", "level"},
	}
)

// CVSpecs lists every localized CV entity keyed by its URL segment.
var CVSpecs = map[string]EntitySpec{
	"experience": ExperienceSpec,
	"education":  EducationSpec,
	"projects":   ProjectSpec,
	"skills":     SkillSpec,
	"languages":  LanguageEntrySpec,
}

// InsertColumns returns every physical column written at creation, in a
// stable order: each localized field expanded per language, then invariants.
func (s EntitySpec) InsertColumns() []string {
	cols := make([]string, 0, len(s.Localized)*len(Languages())+len(s.Invariant))
	for _, f := range s.Localized {
		for _, lang := range Languages() {
			cols = append(cols, LocalizedColumn(f, lang))
		}
	}
	cols = append(cols, s.Invariant...)
	return cols
}

// RequiredColumns returns the physical columns that must be non-empty at
// creation: all language variants plus non-optional invariants.
func (s EntitySpec) RequiredColumns() []string {
	cols := make([]string, 0)
	for _, f := range s.Localized {
		for _, lang := range Languages() {
			cols = append(cols, LocalizedColumn(f, lang))
		}
	}
	for _, f := range s.Invariant {
		if !s.OptionalInvariant[f] {
			cols = append(cols, f)
		}
	}
	return cols
}

// UpdateColumn maps a logical patch key to its physical column for lang.
// Language-invariant fields map to themselves; localized fields map to the
// language-specific column. Unknown keys are rejected.
func (s EntitySpec) UpdateColumn(field string, lang Language) (string, bool) {
	for _, f := range s.Invariant {
		if f == field {
			return f, true
		}
	}
	for _, f := range s.Localized {
		if f == field {
			return LocalizedColumn(f, lang), true
		}
	}
	return "", false
}

// DictionaryEntry is a key with one free-text value per language. It backs
// contact fields and the profile description.
type DictionaryEntry struct {
	Key string `json:"key"`
	EN  string `json:"en"`
	ES  string `json:"es"`
	IT  string `json:"it"`
}

// Text returns the entry's value for lang, falling back to English when the
// requested language's cell is empty.
func (d DictionaryEntry) Text(lang Language) string {
	var v string
	switch lang {
	case LangES:
		v = d.ES
	case LangIT:
		v = d.IT
	default:
		v = d.EN
	}
	if v == "" {
		return d.EN
	}
	return v
}

// ContactKeys are the dictionary keys editable via the contact endpoint.
var ContactKeys = []string{"email", "phone", "address"}

// ProfileKey is the dictionary key holding the profile description.
const ProfileKey = "profile_description"

// CVSnapshot is the full single-language view served by GET /cv.
type CVSnapshot struct {
	Experience []Row             `json:"experience"`
	Education  []Row             `json:"education"`
	Projects   []Row             `json:"projects"`
	Skills     []Row             `json:"skills"`
	Languages  []Row             `json:"languages"`
	Dictionary map[string]string `json:"dictionary"`
	Finance    MonthFinance      `json:"finance"`
}
