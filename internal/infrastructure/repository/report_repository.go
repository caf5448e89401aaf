package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"gorm.io/gorm"
)

const sumIncomeExpense = "COALESCE(SUM(CASE WHEN a.type = ? THEN a.amount ELSE 0 END), 0) AS income, " +
	"COALESCE(SUM(CASE WHEN a.type = ? THEN a.amount ELSE 0 END), 0) AS expense, " +
	"COUNT(a.id) AS transaction_count"

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) PeriodTotals(ctx context.Context, g domainRepo.PeriodGranularity, rng domainRepo.DateRange) ([]domainRepo.PeriodTotalsResult, error) {
	var results []domainRepo.PeriodTotalsResult

	db := r.db.WithContext(ctx)
	period := periodExpr(db, "a.transaction_date", g)

	err := db.Table("accounting AS a").
		Select(period+" AS period, "+sumIncomeExpense, enum.AccountingTypeIncome, enum.AccountingTypeExpense).
		Scopes(DateRangeScope("a.transaction_date", rng)).
		Group(period).
		Order("period ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Income = results[i].Income.Round(2)
		results[i].Expense = results[i].Expense.Round(2)
	}
	return results, nil
}

func (r *reportRepository) PolicyTypeTotals(ctx context.Context, rng domainRepo.DateRange) ([]domainRepo.PolicyTypeTotalsResult, error) {
	var results []domainRepo.PolicyTypeTotalsResult

	err := r.db.WithContext(ctx).Table("policies AS p").
		Select(
			"p.type AS type, COUNT(p.id) AS policy_count, "+
				"COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS active_count, "+
				"COALESCE(SUM(p.premium), 0) AS total_premium",
			enum.PolicyStatusActive,
		).
		Scopes(DateRangeScope("p.start_date", rng)).
		Group("p.type").
		Order("p.type ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].TotalPremium = results[i].TotalPremium.Round(2)
	}
	return results, nil
}

func (r *reportRepository) CustomerTotals(ctx context.Context, rng domainRepo.DateRange) ([]domainRepo.CustomerTotalsResult, error) {
	var results []domainRepo.CustomerTotalsResult

	err := r.db.WithContext(ctx).Table("accounting AS a").
		Select(
			"c.id AS customer_id, c.name AS customer_name, c.national_id AS national_id, c.phone AS phone, "+sumIncomeExpense,
			enum.AccountingTypeIncome, enum.AccountingTypeExpense,
		).
		Joins("JOIN customers c ON c.id = a.customer_id").
		Scopes(DateRangeScope("a.transaction_date", rng)).
		Group("c.id, c.name, c.national_id, c.phone").
		Order("c.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Income = results[i].Income.Round(2)
		results[i].Expense = results[i].Expense.Round(2)
	}
	return results, nil
}

func (r *reportRepository) LastTransaction(ctx context.Context, customerID uint) (*entity.AccountingRecord, error) {
	var record entity.AccountingRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("transaction_date DESC, id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *reportRepository) CustomerPolicyCounts(ctx context.Context) ([]domainRepo.CustomerPolicyCountResult, error) {
	var results []domainRepo.CustomerPolicyCountResult

	err := r.db.WithContext(ctx).Table("customers AS c").
		Select(
			"c.id AS customer_id, c.name AS customer_name, COUNT(p.id) AS policy_count, "+
				"COALESCE(SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END), 0) AS active_count, "+
				"COALESCE(SUM(p.premium), 0) AS total_premium",
			enum.PolicyStatusActive,
		).
		Joins("LEFT JOIN policies p ON p.customer_id = c.id").
		Group("c.id, c.name").
		Order("c.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].TotalPremium = results[i].TotalPremium.Round(2)
	}
	return results, nil
}

func (r *reportRepository) ActivePolicies(ctx context.Context, endFrom, endTo *time.Time) ([]entity.Policy, error) {
	var policies []entity.Policy
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.PolicyStatusActive).
		Scopes(DateRangeScope("end_date", domainRepo.DateRange{From: endFrom, To: endTo})).
		Order("end_date ASC, id ASC").
		Find(&policies).Error
	return policies, err
}
