package store

import (
	"strconv"
	"strings"

	"bookbarter/pkg/domain"
)

// Positional ledger columns. This order is a contract with the existing
// spreadsheet and must not change.
const (
	colLenderPhone = iota
	colLenderName
	colBorrowerPhone
	colBorrowerName
	colBookTitle
	colAuthor
	colDeposit
	colStatus
	colDate
	colID
	ledgerColumns
)

// statusColumn is the 1-based sheet column holding loan status.
const statusColumn = colStatus + 1

// Members worksheet columns.
const (
	colMemberPhone = iota
	colMemberName
	colMemberLentCount
	colMemberBorrowedCount
)

// loanFromRow decodes one raw ledger row into a fully-typed record.
// Missing trailing cells default to empty; a garbage deposit reads as 0.
func loanFromRow(row []string) domain.LoanRecord {
	return domain.LoanRecord{
		ID:            cell(row, colID),
		LenderPhone:   cell(row, colLenderPhone),
		LenderName:    cell(row, colLenderName),
		BorrowerPhone: cell(row, colBorrowerPhone),
		BorrowerName:  cell(row, colBorrowerName),
		BookTitle:     cell(row, colBookTitle),
		Author:        cell(row, colAuthor),
		Deposit:       parseCount(cell(row, colDeposit)),
		Status:        domain.LoanStatus(cell(row, colStatus)),
		Date:          cell(row, colDate),
	}
}

func rowFromLoan(rec domain.LoanRecord) []string {
	row := make([]string, ledgerColumns)
	row[colLenderPhone] = rec.LenderPhone
	row[colLenderName] = rec.LenderName
	row[colBorrowerPhone] = rec.BorrowerPhone
	row[colBorrowerName] = rec.BorrowerName
	row[colBookTitle] = rec.BookTitle
	row[colAuthor] = rec.Author
	row[colDeposit] = strconv.Itoa(rec.Deposit)
	row[colStatus] = string(rec.Status)
	row[colDate] = rec.Date
	row[colID] = rec.ID
	return row
}

func memberFromRow(row []string) domain.Member {
	return domain.Member{
		Phone:         cell(row, colMemberPhone),
		Name:          cell(row, colMemberName),
		LentCount:     parseCount(cell(row, colMemberLentCount)),
		BorrowedCount: parseCount(cell(row, colMemberBorrowedCount)),
	}
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
