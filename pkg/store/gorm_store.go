package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookbarter/pkg/domain"
)

// GormStore implements Store using GORM + Postgres, for deployments that
// keep the ledger in their own database instead of a shared spreadsheet.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&MemberModel{}, &LoanModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (g *GormStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var models []MemberModel
	if err := g.db.WithContext(ctx).Order("phone").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	members := make([]domain.Member, 0, len(models))
	for _, m := range models {
		members = append(members, domain.Member{
			Phone:         m.Phone,
			Name:          m.Name,
			LentCount:     m.LentCount,
			BorrowedCount: m.BorrowedCount,
		})
	}
	return members, nil
}

func (g *GormStore) ListLoans(ctx context.Context) ([]domain.LoanRecord, error) {
	var models []LoanModel
	if err := g.db.WithContext(ctx).Order("seq").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	loans := make([]domain.LoanRecord, 0, len(models))
	for _, m := range models {
		loans = append(loans, loanFromModel(m))
	}
	return loans, nil
}

func (g *GormStore) AppendLoan(ctx context.Context, rec domain.LoanRecord) error {
	model := LoanModel{
		LoanID:        rec.ID,
		LenderPhone:   rec.LenderPhone,
		LenderName:    rec.LenderName,
		BorrowerPhone: rec.BorrowerPhone,
		BorrowerName:  rec.BorrowerName,
		BookTitle:     rec.BookTitle,
		Author:        rec.Author,
		Deposit:       rec.Deposit,
		Status:        string(rec.Status),
		Date:          rec.Date,
	}
	if err := g.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("append loan: %w", err)
	}
	return nil
}

func (g *GormStore) GetLoan(ctx context.Context, id string) (domain.LoanRecord, bool, error) {
	var model LoanModel
	err := g.db.WithContext(ctx).Where("loan_id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.LoanRecord{}, false, nil
	}
	if err != nil {
		return domain.LoanRecord{}, false, fmt.Errorf("get loan: %w", err)
	}
	return loanFromModel(model), true, nil
}

// SetLoanStatus updates only the status column of the matched row.
func (g *GormStore) SetLoanStatus(ctx context.Context, id string, status domain.LoanStatus) error {
	res := g.db.WithContext(ctx).Model(&LoanModel{}).Where("loan_id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update loan status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLoanNotFound
	}
	return nil
}

func loanFromModel(m LoanModel) domain.LoanRecord {
	return domain.LoanRecord{
		ID:            m.LoanID,
		LenderPhone:   m.LenderPhone,
		LenderName:    m.LenderName,
		BorrowerPhone: m.BorrowerPhone,
		BorrowerName:  m.BorrowerName,
		BookTitle:     m.BookTitle,
		Author:        m.Author,
		Deposit:       m.Deposit,
		Status:        domain.LoanStatus(m.Status),
		Date:          m.Date,
	}
}
