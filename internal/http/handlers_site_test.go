package http

import (
	"net/http"
	"testing"

	"sitio/internal/core"
	"sitio/internal/services"
)

func TestVisitorLogAndStats(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/visitors", core.Visit{
		IP: "203.0.113.7", City: "Madrid", Country: "Spain", Loc: "40.41,-3.70",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /visitors = %d, body %s", rr.Code, rr.Body.String())
	}
	if decodeBody(t, rr)["message"] != "Visitor logged" {
		t.Errorf("unexpected message: %s", rr.Body.String())
	}

	stats := decodeBody(t, ts.do(t, http.MethodGet, "/visitors/stats", nil))
	if stats["monthlyUsers"].(float64) != 1 || stats["todayUsers"].(float64) != 1 {
		t.Errorf("stats = %v", stats)
	}
	countries := stats["countries"].(map[string]any)
	if countries["Spain - Madrid"].(float64) != 1 {
		t.Errorf("countries = %v", countries)
	}
}

func TestExchangeRates(t *testing.T) {
	ts := newTestServer(t)

	got := decodeBody(t, ts.do(t, http.MethodGet, "/exchange-rates", nil))
	rates := got["rates"].(map[string]any)
	if rates["USD"].(float64) != 1.08 {
		t.Errorf("rates = %v", rates)
	}

	refresh := ts.do(t, http.MethodPost, "/exchange-rates", nil)
	if refresh.Code != http.StatusOK {
		t.Fatalf("POST /exchange-rates = %d", refresh.Code)
	}
}

func TestExchangeRatesEmptyStoreUpstreamDown(t *testing.T) {
	ts := newTestServer(t)
	ts.Server.rates = services.NewRatesService(ts.repo, &stubFetcher{err: core.ErrUpstreamUnavailable})

	rr := ts.do(t, http.MethodGet, "/exchange-rates", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("GET with broken provider = %d, want 500", rr.Code)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "me@example.com", "password": "secret",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /auth/login = %d, body %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	if payload["message"] != "Login exitoso" {
		t.Errorf("message = %v", payload["message"])
	}
	session := payload["session"].(map[string]any)
	if session["access_token"] != "tok" {
		t.Errorf("session = %v", session)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.identity.err = core.ErrBadCredentials

	rr := ts.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "me@example.com", "password": "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad credentials = %d, want 401", rr.Code)
	}
	if decodeBody(t, rr)["error"] != "Credenciales incorrectas" {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	req := ts.do(t, http.MethodPost, "/auth/logout", nil)
	if req.Code != http.StatusOK {
		t.Fatalf("POST /auth/logout = %d", req.Code)
	}
	if decodeBody(t, req)["message"] != "Logout exitoso" {
		t.Errorf("body = %s", req.Body.String())
	}
}
