package finance

import (
	"context"
	"testing"
	"time"

	"github.com/tacoloja/storefront-backend/pkg/cache"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	cacheSt, err := cache.NewStore(cache.NewMemoryBackend(), nil, nil)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	writer := cache.NewDebouncedWriter(cacheSt, 10*time.Millisecond)
	t.Cleanup(writer.Flush)

	ledger, err := NewLedger(cacheSt, writer)
	if err != nil {
		t.Fatalf("NewLedger returned error: %v", err)
	}
	return ledger
}

func TestUpsertAssignsIDAndIsReadableImmediately(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	rec, err := ledger.Upsert(ctx, Record{
		Description: "Venda balcão",
		Amount:      250,
		Date:        "2025-08-01",
		Category:    CategoryRevenue,
		Paid:        true,
	})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}

	// Debounced write, but the read path sees the new value at once.
	all := ledger.List(ctx)
	if len(all) != 1 || all[0].Description != "Venda balcão" {
		t.Fatalf("unexpected ledger state: %+v", all)
	}
}

func TestUpsertValidation(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.Upsert(ctx, Record{Category: CategoryRevenue}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty description, got %v", err)
	}
	if _, err := ledger.Upsert(ctx, Record{Description: "x", Category: "OUTRO"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	rec, err := ledger.Upsert(ctx, Record{Description: "Aluguel", Amount: 1000, Category: CategoryFixed})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	rec.Amount = 1200
	if _, err := ledger.Upsert(ctx, *rec); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	all := ledger.List(ctx)
	if len(all) != 1 || all[0].Amount != 1200 {
		t.Fatalf("unexpected ledger state: %+v", all)
	}
}

func TestArchiveAndActive(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	rec, err := ledger.Upsert(ctx, Record{Description: "Compra estoque", Amount: 300, Category: CategoryExpense})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := ledger.Archive(ctx, rec.ID, true); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if len(ledger.Active(ctx)) != 0 {
		t.Fatal("expected archived record out of active set")
	}
	if len(ledger.List(ctx)) != 1 {
		t.Fatal("expected archived record kept in full list")
	}

	if err := ledger.Archive(ctx, "missing", true); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	seed := []Record{
		{Description: "Venda site", Amount: 500, Category: CategoryRevenue, Paid: true},
		{Description: "Venda pendente", Amount: 200, Category: CategoryRevenue, Paid: false},
		{Description: "Energia", Amount: 150, Category: CategoryExpense, Paid: false},
		{Description: "Aluguel", Amount: 100, Category: CategoryFixed, Paid: false},
		{Description: "Frete pago", Amount: 50, Category: CategoryExpense, Paid: true},
		{Description: "Cliente a prazo", Amount: 80, Category: CategoryReceivable, Paid: false},
		{Description: "Arquivado", Amount: 999, Category: CategoryExpense, Paid: false, Archived: true},
	}
	for _, r := range seed {
		if _, err := ledger.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	s := ledger.Summarize(ctx)
	if got := s.Revenue.StringFixed(2); got != "500.00" {
		t.Fatalf("revenue = %s", got)
	}
	if got := s.Expenses.StringFixed(2); got != "250.00" {
		t.Fatalf("expenses = %s", got)
	}
	if got := s.Fixed.StringFixed(2); got != "100.00" {
		t.Fatalf("fixed = %s", got)
	}
	if got := s.Receivable.StringFixed(2); got != "80.00" {
		t.Fatalf("receivable = %s", got)
	}
	if got := s.Balance.StringFixed(2); got != "450.00" {
		t.Fatalf("balance = %s", got)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ledger := newTestLedger(t)
	ctx := context.Background()

	rec, err := ledger.Upsert(ctx, Record{Description: "Temporário", Amount: 10, Category: CategoryExpense})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	ledger.Delete(ctx, rec.ID)
	if len(ledger.List(ctx)) != 0 {
		t.Fatal("expected empty ledger after delete")
	}
	ledger.Delete(ctx, "missing")
}
