package http

import (
	"fmt"
	"net/http"

	"sitio/internal/core"
)

func (s *Server) handleRecurringList(w http.ResponseWriter, r *http.Request) {
	templates, err := s.recurring.List(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleRecurringCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Currency string  `json:"currency"`
		DueDay   int     `json:"due_day"`
		Active   *bool   `json:"active"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	rec := core.RecurringExpense{
		Title:    sanitizeInput(body.Title),
		Amount:   body.Amount,
		Category: sanitizeInput(body.Category),
		Currency: body.Currency,
		DueDay:   body.DueDay,
	}
	activeSet := body.Active != nil
	if activeSet {
		rec.Active = *body.Active
	}

	created, err := s.recurring.Create(r.Context(), rec, activeSet)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Gasto recurrente creado correctamente.",
		"recurring": created,
	})
}

func (s *Server) handleRecurringUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var patch core.RecurringPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	updated, err := s.recurring.Update(r.Context(), id, patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Gasto recurrente %d actualizado correctamente.", id),
		"recurring": updated,
	})
}

func (s *Server) handleRecurringDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.recurring.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Gasto recurrente %d eliminado correctamente.", id))
}
