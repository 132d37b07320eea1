package domain

type LoanStatus string

const (
	StatusLent     LoanStatus = "Lent"
	StatusReturned LoanStatus = "Returned"
)

// Member is a registered participant. Counters are maintained outside this
// service and are display-only annotations; they are never recomputed from
// the ledger here.
type Member struct {
	Phone         string `json:"phone"`
	Name          string `json:"name"`
	LentCount     int    `json:"lentCount"`
	BorrowedCount int    `json:"borrowedCount"`
}

// LoanRecord is one row of the ledger. Records are append-only; the only
// mutation a record ever sees is Status going Lent -> Returned.
type LoanRecord struct {
	ID            string     `json:"id"`
	LenderPhone   string     `json:"lenderPhone"`
	LenderName    string     `json:"lenderName"`
	BorrowerPhone string     `json:"borrowerPhone"`
	BorrowerName  string     `json:"borrowerName"`
	BookTitle     string     `json:"bookTitle"`
	Author        string     `json:"author"`
	Deposit       int        `json:"deposit"`
	Status        LoanStatus `json:"status"`
	Date          string     `json:"date"`
}

// LoanView is a LoanRecord plus its human-readable date.
type LoanView struct {
	LoanRecord
	DisplayDate string `json:"displayDate"`
}

// MemberView is the read-only projection returned by a phone lookup:
// member identity plus outstanding loans partitioned by role.
type MemberView struct {
	Name           string     `json:"name"`
	LentCount      int        `json:"lentCount"`
	BorrowedCount  int        `json:"borrowedCount"`
	ActiveLent     []LoanView `json:"activeLent"`
	ActiveBorrowed []LoanView `json:"activeBorrowed"`
}
