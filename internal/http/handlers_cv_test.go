package http

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCVSnapshotLocalized(t *testing.T) {
	ts := newTestServer(t)
	seedExperience(t, ts)

	rr := ts.do(t, http.MethodGet, "/cv?lang=es", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /cv?lang=es = %d, body %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)

	experience, ok := payload["experience"].([]any)
	if !ok || len(experience) != 1 {
		t.Fatalf("experience = %v, want one row", payload["experience"])
	}
	row := experience[0].(map[string]any)
	if row["company"] != "company es" {
		t.Errorf("company = %v, want the Spanish value", row["company"])
	}
	if _, leaked := row["company_en"]; leaked {
		t.Error("snapshot rows must not expose per-language columns")
	}

	if _, ok := payload["finance"]; !ok {
		t.Error("snapshot should embed current month finance")
	}
	if _, ok := payload["dictionary"]; !ok {
		t.Error("snapshot should embed the dictionary")
	}
}

func TestCVSnapshotRejectsBadLanguage(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/cv?lang=fr", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("GET /cv?lang=fr = %d, want 400", rr.Code)
	}
}

func TestCVUpdateTouchesOneLanguage(t *testing.T) {
	ts := newTestServer(t)

	create := ts.do(t, http.MethodPost, "/cv/skills", map[string]any{
		"category_en": "Languages",
		"category_es": "Lenguajes",
		"category_it": "Lingue",
		"skills":      "Go, SQL",
	})
	if create.Code != http.StatusOK {
		t.Fatalf("POST /cv/skills = %d, body %s", create.Code, create.Body.String())
	}
	created := decodeBody(t, create)["skill"].(map[string]any)
	id := int64(created["id"].(float64))

	update := ts.do(t, http.MethodPut, fmt.Sprintf("/cv/skills/%d/es", id), map[string]any{
		"category": "Idiomas",
	})
	if update.Code != http.StatusOK {
		t.Fatalf("PUT /cv/skills/%d/es = %d, body %s", id, update.Code, update.Body.String())
	}
	row := decodeBody(t, update)["updatedSkill"].(map[string]any)

	if row["category_es"] != "Idiomas" {
		t.Errorf("category_es = %v, want Idiomas", row["category_es"])
	}
	if row["category_en"] != "Languages" || row["category_it"] != "Lingue" {
		t.Errorf("other languages changed: en=%v it=%v", row["category_en"], row["category_it"])
	}
	if row["skills"] != "Go, SQL" {
		t.Errorf("skills column changed: %v", row["skills"])
	}
}

func TestCVUpdateRejectsUnknownField(t *testing.T) {
	ts := newTestServer(t)
	row := seedExperience(t, ts)
	id := int64(row["id"].(float64))

	rr := ts.do(t, http.MethodPut, fmt.Sprintf("/cv/experience/%d/en", id), map[string]any{
		"salary": "1000000",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("update with unknown field = %d, want 400", rr.Code)
	}
}

func TestCVDelete(t *testing.T) {
	ts := newTestServer(t)
	row := seedExperience(t, ts)
	id := int64(row["id"].(float64))

	if rr := ts.do(t, http.MethodDelete, fmt.Sprintf("/cv/experience/%d", id), nil); rr.Code != http.StatusOK {
		t.Fatalf("DELETE = %d, body %s", rr.Code, rr.Body.String())
	}
	if rr := ts.do(t, http.MethodDelete, fmt.Sprintf("/cv/experience/%d", id), nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d, want 404", rr.Code)
	}
}

func TestContactUpdateAndFallback(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPut, "/cv/contact/en", map[string]string{
		"email": "me@example.com",
		"phone": "+34 600 000 000",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT /cv/contact/en = %d, body %s", rr.Code, rr.Body.String())
	}

	// Spanish snapshot falls back to the English contact text.
	snap := decodeBody(t, ts.do(t, http.MethodGet, "/cv?lang=es", nil))
	dictionary := snap["dictionary"].(map[string]any)
	if dictionary["email"] != "me@example.com" {
		t.Errorf("dictionary email = %v, want English fallback", dictionary["email"])
	}
}

func TestContactUpdateRejectsUnknownKey(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPut, "/cv/contact/en", map[string]string{"twitter": "@me"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown contact key = %d, want 400", rr.Code)
	}
}

func TestProfileLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Seeded empty: reads are 404 until some language has text.
	if rr := ts.do(t, http.MethodGet, "/cv/profile?lang=en", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("GET empty profile = %d, want 404", rr.Code)
	}

	rr := ts.do(t, http.MethodPut, "/cv/profile/en", map[string]string{
		"profile_description": "Software engineer.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT /cv/profile/en = %d, body %s", rr.Code, rr.Body.String())
	}

	got := decodeBody(t, ts.do(t, http.MethodGet, "/cv/profile?lang=it", nil))
	if got["profile"] != "Software engineer." {
		t.Errorf("profile = %v, want English fallback", got["profile"])
	}
}
