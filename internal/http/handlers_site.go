package http

import (
	"fmt"
	"net/http"
	"time"

	"sitio/internal/core"
)

func (s *Server) handleRatesGet(w http.ResponseWriter, r *http.Request) {
	rates, err := s.rates.Rates(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": rates})
}

func (s *Server) handleRatesRefresh(w http.ResponseWriter, r *http.Request) {
	if _, err := s.rates.Rates(r.Context()); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Tasas de cambio actualizadas correctamente.")
}

func (s *Server) handleVisitorLog(w http.ResponseWriter, r *http.Request) {
	var visit core.Visit
	if err := decodeJSON(w, r, &visit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	if err := s.visitors.Log(r.Context(), visit); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Visitor logged")
}

func (s *Server) handleVisitorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.visitors.Stats(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.identity == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error interno del servidor."})
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	session, err := s.identity.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login exitoso",
		"session": session,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.identity != nil {
		token := r.Header.Get("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			s.identity.SignOut(r.Context(), token[7:])
		}
	}
	writeMessage(w, http.StatusOK, "Logout exitoso")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleTestDB is the one endpoint allowed to surface backend error detail,
// for connectivity diagnosis.
func (s *Server) handleTestDB(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	counts, err := s.db.TableCounts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error en la conexión",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Conexión exitosa",
		"elapsed_ms": fmt.Sprintf("%d", time.Since(start).Milliseconds()),
		"tables":     counts,
	})
}
