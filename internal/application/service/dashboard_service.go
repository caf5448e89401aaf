package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/utils"
)

// dashboardExpiringLimit caps the policies listed on the dashboard
const dashboardExpiringLimit = 5

// DashboardService provides dashboard statistics
type DashboardService struct {
	customerRepo   repository.CustomerRepository
	policyRepo     repository.PolicyRepository
	accountingRepo repository.AccountingRepository
	reportRepo     repository.ReportRepository
	expiringDays   int
	now            func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customerRepo repository.CustomerRepository,
	policyRepo repository.PolicyRepository,
	accountingRepo repository.AccountingRepository,
	reportRepo repository.ReportRepository,
	expiringDays int,
) *DashboardService {
	if expiringDays <= 0 {
		expiringDays = 30
	}
	return &DashboardService{
		customerRepo:   customerRepo,
		policyRepo:     policyRepo,
		accountingRepo: accountingRepo,
		reportRepo:     reportRepo,
		expiringDays:   expiringDays,
		now:            time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers   int64           `json:"total_customers"`
	TotalPolicies    int64           `json:"total_policies"`
	ActivePolicies   int64           `json:"active_policies"`
	ExpiringSoon     int64           `json:"expiring_soon"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyExpense   decimal.Decimal `json:"monthly_expense"`
	MonthlyNet       decimal.Decimal `json:"monthly_net"`
	ExpiringPolicies []entity.Policy `json:"expiring_policies"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPolicies, err = s.policyRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	active := enum.PolicyStatusActive
	if stats.ActivePolicies, err = s.policyRepo.Count(ctx, &active); err != nil {
		return nil, err
	}

	today := utils.DateOf(s.now())
	until := today.AddDate(0, 0, s.expiringDays)
	expiring, err := s.reportRepo.ActivePolicies(ctx, &today, &until)
	if err != nil {
		return nil, err
	}
	stats.ExpiringSoon = int64(len(expiring))
	if len(expiring) > dashboardExpiringLimit {
		expiring = expiring[:dashboardExpiringLimit]
	}
	if expiring == nil {
		expiring = []entity.Policy{}
	}
	stats.ExpiringPolicies = expiring

	// current calendar month
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	totals, err := s.accountingRepo.Totals(ctx, nil, repository.DateRange{From: &monthStart, To: &monthEnd})
	if err != nil {
		return nil, err
	}
	stats.MonthlyIncome = totals.Income
	stats.MonthlyExpense = totals.Expense
	stats.MonthlyNet = totals.Net()

	return stats, nil
}
