package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sitio/internal/core"
)

// maxBodyBytes caps request bodies. Every payload this API accepts is a
// small JSON document.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps a service error onto the wire contract: validation 400,
// bad credentials 401, missing rows 404, everything else a generic 500 so
// internal detail never leaks to the caller.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case core.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales incorrectas"})
	case errors.Is(err, core.ErrNoRates):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No hay tasas de cambio disponibles."})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrUpstreamUnavailable):
		slog.ErrorContext(ctx, "Upstream provider failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener tasas de cambio."})
	default:
		slog.ErrorContext(ctx, "Unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor."})
	}
}

// decodeJSON reads the request body into dst, rejecting unknown oversized
// payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id '%s'", r.PathValue("id"))
	}
	return id, nil
}

func pathLanguage(r *http.Request) (core.Language, error) {
	return core.ParseLanguage(r.PathValue("lang"))
}

// pathMonthKey resolves the /:month/:year segments, accepting month names in
// Spanish, Italian and English as well as numeric months.
func pathMonthKey(r *http.Request) (core.MonthKey, error) {
	return core.ResolveMonthKey(r.PathValue("month"), r.PathValue("year"))
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
