package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookbarter/internal/datefmt"
	"bookbarter/pkg/domain"
	"bookbarter/pkg/store"
)

// ledgerDateLayout is the day-month-year form new ledger rows are stamped
// with, matching the existing spreadsheet contents.
const ledgerDateLayout = "02-01-2006"

// App is the lending core: it validates registrations, answers phone
// lookups, and performs the single Lent -> Returned transition.
type App struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

// New constructs the core on top of a ledger store.
func New(st store.Store) (*App, error) {
	if st == nil {
		return nil, errors.New("store required")
	}
	return &App{
		store: st,
		now:   time.Now,
		newID: newLoanID,
	}, nil
}

// newLoanID returns a short unique ledger token.
func newLoanID() string {
	return uuid.NewString()[:8]
}

// RegisterInput is one submitted lending form.
type RegisterInput struct {
	LenderPhone   string
	LenderName    string
	BorrowerPhone string
	BorrowerName  string
	BookTitle     string
	Author        string
	Deposit       string
}

// Register validates a submission and appends one ledger row. Names of
// already-registered members are resolved from the members register and
// override whatever was typed, so a known phone number cannot drift to a
// different name. Returns the created record for the caller to render.
func (a *App) Register(ctx context.Context, in RegisterInput) (domain.LoanRecord, error) {
	directory := a.memberDirectory(ctx)

	lenderPhone := strings.TrimSpace(in.LenderPhone)
	borrowerPhone := strings.TrimSpace(in.BorrowerPhone)
	lenderName := resolveName(directory, lenderPhone, in.LenderName)
	borrowerName := resolveName(directory, borrowerPhone, in.BorrowerName)
	bookTitle := strings.TrimSpace(in.BookTitle)
	deposit := strings.TrimSpace(in.Deposit)

	var rules []string
	if !isPhone(lenderPhone) {
		rules = append(rules, "lender phone must be exactly 10 digits")
	}
	if !isPhone(borrowerPhone) {
		rules = append(rules, "borrower phone must be exactly 10 digits")
	}
	if lenderName == "" {
		rules = append(rules, "lender name is required")
	}
	if borrowerName == "" {
		rules = append(rules, "borrower name is required")
	}
	if bookTitle == "" {
		rules = append(rules, "book title is required")
	}
	depositValue := 0
	if deposit != "" {
		n, err := strconv.Atoi(deposit)
		if err != nil || !allDigits(deposit) {
			rules = append(rules, "deposit must be a whole number")
		} else {
			depositValue = n
		}
	}
	if len(rules) > 0 {
		return domain.LoanRecord{}, &ValidationError{Rules: rules}
	}
	rec := domain.LoanRecord{
		ID:            a.newID(),
		LenderPhone:   lenderPhone,
		LenderName:    lenderName,
		BorrowerPhone: borrowerPhone,
		BorrowerName:  borrowerName,
		BookTitle:     bookTitle,
		Author:        strings.TrimSpace(in.Author),
		Deposit:       depositValue,
		Status:        domain.StatusLent,
		Date:          a.now().Format(ledgerDateLayout),
	}
	if err := a.store.AppendLoan(ctx, rec); err != nil {
		return domain.LoanRecord{}, fmt.Errorf("append loan: %w", err)
	}
	return rec, nil
}

// Lookup returns the member view for a phone number: identity, lifetime
// counters, and outstanding loans partitioned into lent and borrowed.
func (a *App) Lookup(ctx context.Context, phone string) (domain.MemberView, error) {
	if !isPhone(phone) {
		return domain.MemberView{}, ErrInvalidPhone
	}

	members, err := a.store.ListMembers(ctx)
	if err != nil {
		return domain.MemberView{}, fmt.Errorf("list members: %w", err)
	}
	var member *domain.Member
	for i := range members {
		// Phones stay strings end to end; a numeric compare would eat
		// leading zeros.
		if strings.TrimSpace(members[i].Phone) == phone {
			member = &members[i]
			break
		}
	}
	if member == nil {
		return domain.MemberView{}, ErrMemberNotFound
	}

	loans, err := a.store.ListLoans(ctx)
	if err != nil {
		return domain.MemberView{}, fmt.Errorf("list loans: %w", err)
	}
	view := domain.MemberView{
		Name:           member.Name,
		LentCount:      member.LentCount,
		BorrowedCount:  member.BorrowedCount,
		ActiveLent:     []domain.LoanView{},
		ActiveBorrowed: []domain.LoanView{},
	}
	for _, rec := range loans {
		if rec.Status != domain.StatusLent {
			continue
		}
		if strings.TrimSpace(rec.LenderPhone) == phone {
			view.ActiveLent = append(view.ActiveLent, loanView(rec))
		}
		if strings.TrimSpace(rec.BorrowerPhone) == phone {
			view.ActiveBorrowed = append(view.ActiveBorrowed, loanView(rec))
		}
	}
	return view, nil
}

// MarkReturned transitions the identified loan to Returned. Marking an
// already-returned loan succeeds without touching the store.
func (a *App) MarkReturned(ctx context.Context, id string) error {
	rec, ok, err := a.store.GetLoan(ctx, id)
	if err != nil {
		return fmt.Errorf("get loan: %w", err)
	}
	if !ok {
		return ErrLoanNotFound
	}
	if rec.Status == domain.StatusReturned {
		return nil
	}
	if err := a.store.SetLoanStatus(ctx, id, domain.StatusReturned); err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return ErrLoanNotFound
		}
		return fmt.Errorf("set loan status: %w", err)
	}
	return nil
}

// memberDirectory maps registered phones to authoritative names. A failed
// fetch degrades to an empty directory so registration keeps working with
// typed names; this is the only error the core swallows.
func (a *App) memberDirectory(ctx context.Context) map[string]string {
	members, err := a.store.ListMembers(ctx)
	if err != nil {
		slog.Warn("member directory unavailable, using typed names", "err", err)
		return map[string]string{}
	}
	directory := make(map[string]string, len(members))
	for _, m := range members {
		phone := strings.TrimSpace(m.Phone)
		if phone == "" {
			continue
		}
		directory[phone] = strings.TrimSpace(m.Name)
	}
	return directory
}

func resolveName(directory map[string]string, phone, typed string) string {
	if known := directory[phone]; known != "" {
		return known
	}
	return strings.TrimSpace(typed)
}

func loanView(rec domain.LoanRecord) domain.LoanView {
	return domain.LoanView{
		LoanRecord:  rec,
		DisplayDate: datefmt.Format(rec.Date),
	}
}

func isPhone(s string) bool {
	return len(s) == 10 && allDigits(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
