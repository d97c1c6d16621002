// Package finance keeps the back-office financial ledger in the local
// cache. Writes are debounced because ledger edits arrive in bursts from
// the admin screen.
package finance

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
)

// Record categories.
const (
	CategoryRevenue    = "RECEITA"
	CategoryExpense    = "DESPESA"
	CategoryFixed      = "FIXO"
	CategoryReceivable = "A RECEBER"
)

// Record is one ledger entry.
type Record struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	DueDate     string  `json:"dueDate,omitempty"`
	Category    string  `json:"category"`
	Notes       string  `json:"notes,omitempty"`
	Archived    bool    `json:"archived"`
	Paid        bool    `json:"paid"`
}

// Summary aggregates the active ledger for the dashboard.
type Summary struct {
	Revenue    decimal.Decimal
	Expenses   decimal.Decimal
	Receivable decimal.Decimal
	Fixed      decimal.Decimal
	Balance    decimal.Decimal
}

// Ledger stores financial records under one cache key.
type Ledger struct {
	cacheSt *cache.Store
	writer  *cache.DebouncedWriter
}

func NewLedger(cacheSt *cache.Store, writer *cache.DebouncedWriter) (*Ledger, error) {
	if cacheSt == nil {
		return nil, errors.New("cache store is required")
	}
	if writer == nil {
		return nil, errors.New("debounced writer is required")
	}
	return &Ledger{cacheSt: cacheSt, writer: writer}, nil
}

// List returns every record, archived included.
func (l *Ledger) List(ctx context.Context) []Record {
	return cache.Get(ctx, l.cacheSt, cache.KeyFinancialRecords, []Record{})
}

// Active returns the records not yet archived.
func (l *Ledger) Active(ctx context.Context) []Record {
	all := l.List(ctx)
	out := make([]Record, 0, len(all))
	for _, r := range all {
		if !r.Archived {
			out = append(out, r)
		}
	}
	return out
}

// Upsert validates and stores a record, replacing one with the same id.
// The write is debounced; reads see the new value immediately.
func (l *Ledger) Upsert(ctx context.Context, rec Record) (*Record, error) {
	if strings.TrimSpace(rec.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record description is required")
	}
	if !validCategory(rec.Category) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown record category")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	all := l.List(ctx)
	replaced := false
	for i := range all {
		if all[i].ID == rec.ID {
			all[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, rec)
	}
	cache.WriteDebounced(l.writer, cache.KeyFinancialRecords, all)
	return &rec, nil
}

// Delete drops a record by id. Deleting an unknown id is not an error.
func (l *Ledger) Delete(ctx context.Context, id string) {
	all := l.List(ctx)
	next := make([]Record, 0, len(all))
	for _, r := range all {
		if r.ID != id {
			next = append(next, r)
		}
	}
	cache.WriteDebounced(l.writer, cache.KeyFinancialRecords, next)
}

// Archive toggles the archived flag.
func (l *Ledger) Archive(ctx context.Context, id string, archived bool) error {
	all := l.List(ctx)
	for i := range all {
		if all[i].ID == id {
			all[i].Archived = archived
			cache.WriteDebounced(l.writer, cache.KeyFinancialRecords, all)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
}

// Summarize computes the dashboard totals over active records. Paid
// revenue counts as revenue; unpaid expenses and fixed costs count as
// open expenses; the balance is paid revenue minus paid expenses.
func (l *Ledger) Summarize(ctx context.Context) Summary {
	s := Summary{
		Revenue:    decimal.Zero,
		Expenses:   decimal.Zero,
		Receivable: decimal.Zero,
		Fixed:      decimal.Zero,
	}
	paidExpenses := decimal.Zero

	for _, r := range l.Active(ctx) {
		amount := decimal.NewFromFloat(r.Amount)
		switch {
		case r.Category == CategoryRevenue && r.Paid:
			s.Revenue = s.Revenue.Add(amount)
		case (r.Category == CategoryExpense || r.Category == CategoryFixed) && !r.Paid:
			s.Expenses = s.Expenses.Add(amount)
			if r.Category == CategoryFixed {
				s.Fixed = s.Fixed.Add(amount)
			}
		case (r.Category == CategoryExpense || r.Category == CategoryFixed) && r.Paid:
			paidExpenses = paidExpenses.Add(amount)
		case r.Category == CategoryReceivable && !r.Paid:
			s.Receivable = s.Receivable.Add(amount)
		}
	}

	s.Balance = s.Revenue.Sub(paidExpenses)
	return s
}

func validCategory(category string) bool {
	switch category {
	case CategoryRevenue, CategoryExpense, CategoryFixed, CategoryReceivable:
		return true
	}
	return false
}
