package http

import (
	"fmt"
	"net/http"
	"time"

	"sitio/internal/core"
)

func (s *Server) handleMonthFinance(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	finance, err := s.finance.MonthFinance(r.Context(), month)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, finance)
}

func (s *Server) handleIncomeUpsert(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var body core.Income
	if err := decodeJSON(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	income, err := s.finance.UpsertIncome(r.Context(), month, body)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Entrada mensual actualizada para %s", month),
		"income":  income,
	})
}

func (s *Server) handleIncomeDelete(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.finance.DeleteIncome(r.Context(), month); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Entrada mensual eliminada correctamente.")
}

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var body core.Expense
	if err := decodeJSON(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}
	body.MonthYear = month
	body.Name = sanitizeInput(body.Name)
	body.Category = sanitizeInput(body.Category)

	expense, err := s.finance.AddExpense(r.Context(), body)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    fmt.Sprintf("Gasto agregado correctamente a %s", month),
		"newExpense": expense,
	})
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var patch core.ExpensePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Cuerpo de la solicitud no válido."})
		return
	}

	expense, err := s.finance.UpdateExpense(r.Context(), month, id, patch)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "Gasto actualizado correctamente",
		"updatedExpense": expense,
	})
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	month, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.finance.DeleteExpense(r.Context(), month, id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Gasto con ID %d eliminado correctamente.", id))
}

func (s *Server) handleMigrateExpenses(w http.ResponseWriter, r *http.Request) {
	to, err := pathMonthKey(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	from, err := to.Previous()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	moved, err := s.finance.MigratePendingTo(r.Context(), to)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if moved == 0 {
		writeMessage(w, http.StatusOK, "No hay gastos pendientes para trasladar.")
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Gastos pendientes trasladados de %s a %s.", from, to))
}

func (s *Server) handleMigrateRecurring(w http.ResponseWriter, r *http.Request) {
	inserted, err := s.processor.ProcessMonth(r.Context(), time.Now())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Migración completa",
		"inserted": inserted,
	})
}
