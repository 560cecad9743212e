package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sitio/internal/core"
)

func TestFetchEUR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/EUR" {
			t.Errorf("path = %q, want /EUR", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "secret" {
			t.Errorf("apikey = %q, want secret", r.URL.Query().Get("apikey"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rates": {"USD": 1.09, "GBP": 0.85}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	rates, err := client.FetchEUR(context.Background())
	if err != nil {
		t.Fatalf("FetchEUR() error = %v", err)
	}
	if rates["USD"] != 1.09 || rates["GBP"] != 0.85 {
		t.Errorf("rates = %v", rates)
	}
}

func TestFetchEURUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty rates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"rates": {}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, "secret")
			_, err := client.FetchEUR(context.Background())
			if !errors.Is(err, core.ErrUpstreamUnavailable) {
				t.Errorf("FetchEUR() error = %v, want ErrUpstreamUnavailable", err)
			}
		})
	}
}

func TestFetchEURConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret")
	_, err := client.FetchEUR(context.Background())
	if !errors.Is(err, core.ErrUpstreamUnavailable) {
		t.Errorf("FetchEUR() error = %v, want ErrUpstreamUnavailable", err)
	}
}
