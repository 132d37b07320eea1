package store

import (
	"context"
	"errors"

	"bookbarter/pkg/domain"
)

// ErrLoanNotFound is returned by targeted loan operations when no ledger row
// carries the requested id.
var ErrLoanNotFound = errors.New("loan not found")

// Store defines persistence operations for the members register and the
// loan ledger. Implementations back onto Google Sheets (production),
// Postgres, or memory (tests).
type Store interface {
	// members
	ListMembers(ctx context.Context) ([]domain.Member, error)

	// ledger
	ListLoans(ctx context.Context) ([]domain.LoanRecord, error)
	AppendLoan(ctx context.Context, rec domain.LoanRecord) error
	GetLoan(ctx context.Context, id string) (domain.LoanRecord, bool, error)
	SetLoanStatus(ctx context.Context, id string, status domain.LoanStatus) error
}
