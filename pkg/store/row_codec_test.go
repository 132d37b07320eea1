package store

import (
	"testing"

	"bookbarter/pkg/domain"
)

func TestLoanRowRoundTrip(t *testing.T) {
	rec := domain.LoanRecord{
		ID:            "a1b2c3d4",
		LenderPhone:   "9000000001",
		LenderName:    "Ravi",
		BorrowerPhone: "9000000002",
		BorrowerName:  "Priya",
		BookTitle:     "Dune",
		Author:        "Frank Herbert",
		Deposit:       100,
		Status:        domain.StatusLent,
		Date:          "15-03-2025",
	}
	row := rowFromLoan(rec)
	if len(row) != ledgerColumns {
		t.Fatalf("expected %d columns, got %d", ledgerColumns, len(row))
	}
	if row[colStatus] != "Lent" {
		t.Fatalf("status column holds %q", row[colStatus])
	}
	if got := loanFromRow(row); got != rec {
		t.Fatalf("round trip mismatch: %+v != %+v", got, rec)
	}
}

func TestLoanFromShortRow(t *testing.T) {
	// A row written before later columns existed decodes with defaults.
	rec := loanFromRow([]string{"9000000001", "Ravi"})
	if rec.LenderPhone != "9000000001" || rec.LenderName != "Ravi" {
		t.Fatalf("unexpected decode: %+v", rec)
	}
	if rec.ID != "" || rec.Deposit != 0 || rec.Status != "" {
		t.Fatalf("missing cells should default: %+v", rec)
	}
}

func TestLoanFromRowGarbageDeposit(t *testing.T) {
	row := make([]string, ledgerColumns)
	row[colDeposit] = "abc"
	if rec := loanFromRow(row); rec.Deposit != 0 {
		t.Fatalf("garbage deposit should read as 0, got %d", rec.Deposit)
	}
}

func TestMemberFromRow(t *testing.T) {
	m := memberFromRow([]string{" 9876543210 ", " Asha ", "3", "nope"})
	if m.Phone != "9876543210" || m.Name != "Asha" {
		t.Fatalf("cells should be trimmed: %+v", m)
	}
	if m.LentCount != 3 || m.BorrowedCount != 0 {
		t.Fatalf("counters misread: %+v", m)
	}
}

func TestStatusColumnContract(t *testing.T) {
	// The targeted update in SetLoanStatus writes sheet column 8 (1-based).
	if statusColumn != 8 {
		t.Fatalf("status column moved to %d; the spreadsheet contract pins it at 8", statusColumn)
	}
}
