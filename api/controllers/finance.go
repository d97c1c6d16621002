package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/api/validators"
	"github.com/tacoloja/storefront-backend/internal/finance"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

// ListFinancialRecords returns active records by default; ?archived=true
// includes archived ones.
func ListFinancialRecords(ledger *finance.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger unavailable"))
			return
		}

		if validators.BoolQuery(r, "archived", false) {
			responses.WriteSuccess(w, ledger.List(r.Context()))
			return
		}
		responses.WriteSuccess(w, ledger.Active(r.Context()))
	}
}

type saveFinancialRecordRequest struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Date        string  `json:"date" validate:"required"`
	DueDate     string  `json:"dueDate,omitempty"`
	Category    string  `json:"category" validate:"required"`
	Notes       string  `json:"notes,omitempty"`
	Archived    bool    `json:"archived,omitempty"`
	Paid        bool    `json:"paid,omitempty"`
}

func SaveFinancialRecord(ledger *finance.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger unavailable"))
			return
		}

		var payload saveFinancialRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rec, err := ledger.Upsert(r.Context(), finance.Record{
			ID:          payload.ID,
			Description: payload.Description,
			Amount:      payload.Amount,
			Date:        payload.Date,
			DueDate:     payload.DueDate,
			Category:    payload.Category,
			Notes:       payload.Notes,
			Archived:    payload.Archived,
			Paid:        payload.Paid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

func DeleteFinancialRecord(ledger *finance.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger unavailable"))
			return
		}

		id := chi.URLParam(r, "recordId")
		ledger.Delete(r.Context(), id)
		responses.WriteSuccess(w, map[string]string{"id": id, "status": "deleted"})
	}
}

type archiveRecordRequest struct {
	Archived bool `json:"archived"`
}

func ArchiveFinancialRecord(ledger *finance.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger unavailable"))
			return
		}

		var payload archiveRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := chi.URLParam(r, "recordId")
		if err := ledger.Archive(r.Context(), id, payload.Archived); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "archived": payload.Archived})
	}
}

type financialSummaryResponse struct {
	Revenue    string `json:"revenue"`
	Expenses   string `json:"expenses"`
	Receivable string `json:"receivable"`
	Fixed      string `json:"fixed"`
	Balance    string `json:"balance"`
}

func FinancialSummary(ledger *finance.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger unavailable"))
			return
		}

		sum := ledger.Summarize(r.Context())
		responses.WriteSuccess(w, financialSummaryResponse{
			Revenue:    sum.Revenue.StringFixed(2),
			Expenses:   sum.Expenses.StringFixed(2),
			Receivable: sum.Receivable.StringFixed(2),
			Fixed:      sum.Fixed.StringFixed(2),
			Balance:    sum.Balance.StringFixed(2),
		})
	}
}
