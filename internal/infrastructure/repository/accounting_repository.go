package repository

import (
	"context"
	"errors"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountingRepository struct {
	db *gorm.DB
}

// NewAccountingRepository creates a new accounting repository
func NewAccountingRepository(db *gorm.DB) domainRepo.AccountingRepository {
	return &accountingRepository{db: db}
}

func (r *accountingRepository) Create(ctx context.Context, record *entity.AccountingRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *accountingRepository) GetByID(ctx context.Context, id uint) (*entity.AccountingRecord, error) {
	var record entity.AccountingRecord
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *accountingRepository) Update(ctx context.Context, record *entity.AccountingRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

func (r *accountingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.AccountingRecord{}, "id = ?", id).Error
}

func (r *accountingRepository) List(ctx context.Context, filter domainRepo.AccountingFilter) ([]entity.AccountingRecord, int64, error) {
	var records []entity.AccountingRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AccountingRecord{}).
		Scopes(
			SearchScope(filter.Search, "description"),
			DateRangeScope("transaction_date", filter.DateRange),
		)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.PolicyID != nil {
		query = query.Where("policy_id = ?", *filter.PolicyID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.PlateNumber != "" {
		query = query.Where("plate_number = ?", filter.PlateNumber)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PaginateScope(filter.Pagination)).
		Preload("Customer").
		Order("transaction_date DESC, id DESC").
		Find(&records).Error

	return records, total, err
}

func (r *accountingRepository) ListForLedger(ctx context.Context, customerID uint, rng domainRepo.DateRange) ([]entity.AccountingRecord, error) {
	var records []entity.AccountingRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Scopes(DateRangeScope("transaction_date", rng)).
		Order("transaction_date ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *accountingRepository) Totals(ctx context.Context, customerID *uint, rng domainRepo.DateRange) (domainRepo.Totals, error) {
	var totals domainRepo.Totals

	query := r.db.WithContext(ctx).Model(&entity.AccountingRecord{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense, "+
				"COUNT(*) AS transaction_count",
			enum.AccountingTypeIncome, enum.AccountingTypeExpense,
		).
		Scopes(DateRangeScope("transaction_date", rng))
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if err := query.Scan(&totals).Error; err != nil {
		return totals, err
	}
	totals.Income = totals.Income.Round(2)
	totals.Expense = totals.Expense.Round(2)
	return totals, nil
}
