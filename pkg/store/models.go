package store

// GORM models used by the Postgres backend.
type MemberModel struct {
	Phone         string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	LentCount     int    `gorm:"not null;default:0"`
	BorrowedCount int    `gorm:"not null;default:0"`
}

// LoanModel keeps Seq so that listing preserves append order, matching the
// row order a spreadsheet ledger would have.
type LoanModel struct {
	Seq           uint   `gorm:"primaryKey;autoIncrement"`
	LoanID        string `gorm:"uniqueIndex;not null"`
	LenderPhone   string `gorm:"not null;index"`
	LenderName    string `gorm:"not null"`
	BorrowerPhone string `gorm:"not null;index"`
	BorrowerName  string `gorm:"not null"`
	BookTitle     string `gorm:"not null"`
	Author        string
	Deposit       int    `gorm:"not null;default:0"`
	Status        string `gorm:"not null"`
	Date          string `gorm:"not null"`
}
