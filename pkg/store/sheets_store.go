package store

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"bookbarter/pkg/domain"
)

// SheetsStore implements Store against a Google Sheets spreadsheet, the
// community's system of record. The ledger and members worksheets each carry
// a header row which is skipped on read.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	ledgerSheet   string
	membersSheet  string
}

// NewSheetsStore authenticates with a service-account credentials file and
// probes the spreadsheet. An unreachable or unknown spreadsheet is a
// constructor error: every feature depends on the store, so the service
// must refuse to start rather than run degraded.
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile, ledgerSheet, membersSheet string) (*SheetsStore, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id required")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	if _, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	if ledgerSheet == "" {
		ledgerSheet = "Ledger"
	}
	if membersSheet == "" {
		membersSheet = "Members"
	}
	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		membersSheet:  membersSheet,
	}, nil
}

func (s *SheetsStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.readAll(ctx, s.membersSheet)
	if err != nil {
		return nil, fmt.Errorf("read members: %w", err)
	}
	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		m := memberFromRow(row)
		if m.Phone == "" {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

func (s *SheetsStore) ListLoans(ctx context.Context) ([]domain.LoanRecord, error) {
	rows, err := s.readAll(ctx, s.ledgerSheet)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	loans := make([]domain.LoanRecord, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, loanFromRow(row))
	}
	return loans, nil
}

// AppendLoan adds one ledger row in a single append call. Appends are
// independent, so no read-modify-write coordination is needed.
func (s *SheetsStore) AppendLoan(ctx context.Context, rec domain.LoanRecord) error {
	row := rowFromLoan(rec)
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.ledgerSheet, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}
	return nil
}

func (s *SheetsStore) GetLoan(ctx context.Context, id string) (domain.LoanRecord, bool, error) {
	loans, err := s.ListLoans(ctx)
	if err != nil {
		return domain.LoanRecord{}, false, err
	}
	for _, rec := range loans {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return domain.LoanRecord{}, false, nil
}

// SetLoanStatus writes only the status cell of the row carrying id. The rest
// of the row is never rewritten.
func (s *SheetsStore) SetLoanStatus(ctx context.Context, id string, status domain.LoanStatus) error {
	rows, err := s.readAll(ctx, s.ledgerSheet)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	rowNum := 0
	for i, row := range rows {
		if cell(row, colID) == id {
			// +2: one for the header row, one for 1-based sheet rows.
			rowNum = i + 2
			break
		}
	}
	if rowNum == 0 {
		return ErrLoanNotFound
	}
	target := fmt.Sprintf("%s!%c%d", s.ledgerSheet, 'A'+colStatus, rowNum)
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, target, &sheets.ValueRange{
		Values: [][]interface{}{{string(status)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update status cell: %w", err)
	}
	return nil
}

// readAll fetches a worksheet and returns its data rows as strings, header
// row stripped.
func (s *SheetsStore) readAll(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
