package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/utils"
)

// ReportService assembles the fixed report kinds
type ReportService struct {
	reportRepo   repository.ReportRepository
	ledger       *LedgerService
	expiringDays int
	now          func() time.Time
}

// NewReportService creates a new report service. expiringDays is the default
// lookahead of the expiring report.
func NewReportService(
	reportRepo repository.ReportRepository,
	ledger *LedgerService,
	expiringDays int,
) *ReportService {
	if expiringDays <= 0 {
		expiringDays = 30
	}
	return &ReportService{
		reportRepo:   reportRepo,
		ledger:       ledger,
		expiringDays: expiringDays,
		now:          time.Now,
	}
}

// ReportFilter holds the optional report parameters
type ReportFilter struct {
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	CustomerID *uint      `json:"customer_id,omitempty"`
	Days       *int       `json:"days,omitempty"`
}

func (f ReportFilter) dateRange() repository.DateRange {
	return repository.DateRange{From: f.StartDate, To: f.EndDate}
}

// ReportSummary carries the totals relevant to a kind; the rest stay nil
type ReportSummary struct {
	TotalCustomers   *int64           `json:"total_customers,omitempty"`
	TotalPolicies    *int64           `json:"total_policies,omitempty"`
	TotalIncome      *decimal.Decimal `json:"total_income,omitempty"`
	TotalExpense     *decimal.Decimal `json:"total_expense,omitempty"`
	NetAmount        *decimal.Decimal `json:"net_amount,omitempty"`
	TransactionCount *int64           `json:"transaction_count,omitempty"`
	TotalPremium     *decimal.Decimal `json:"total_premium,omitempty"`
	TotalOutstanding *decimal.Decimal `json:"total_outstanding,omitempty"`
	OpeningBalance   *decimal.Decimal `json:"opening_balance,omitempty"`
}

// Report is the response of every report kind. Rows holds a slice of the
// kind's row type.
type Report struct {
	Kind        enum.ReportKind `json:"kind"`
	GeneratedAt time.Time       `json:"generated_at"`
	Filters     ReportFilter    `json:"filters"`
	Rows        interface{}     `json:"rows"`
	Summary     ReportSummary   `json:"summary"`

	table reportTable
}

// reportTable is the flat rendering used by the spreadsheet export
type reportTable struct {
	headers []string
	rows    [][]interface{}
}

// PeriodRow is one month or year of the monthly and yearly reports
type PeriodRow struct {
	Period           string          `json:"period"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int64           `json:"transaction_count"`
}

// PolicyTypeRow is one line of the policy-types report
type PolicyTypeRow struct {
	Type         enum.PolicyType `json:"type"`
	PolicyCount  int64           `json:"policy_count"`
	ActiveCount  int64           `json:"active_count"`
	TotalPremium decimal.Decimal `json:"total_premium"`
}

// CustomerRow is one line of the customers report
type CustomerRow struct {
	CustomerID       uint            `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// UnpaidRow is a customer with a negative lifetime balance
type UnpaidRow struct {
	CustomerID          uint            `json:"customer_id"`
	CustomerName        string          `json:"customer_name"`
	NationalID          string          `json:"national_id"`
	Phone               *string         `json:"phone,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	LastTransactionDate *time.Time      `json:"last_transaction_date,omitempty"`
	DaysPastDue         int             `json:"days_past_due"`
}

// PolicyRow is one line of the active-policies and expiring reports
type PolicyRow struct {
	ID           uint            `json:"id"`
	PolicyNumber string          `json:"policy_number"`
	CustomerName string          `json:"customer_name"`
	Type         enum.PolicyType `json:"type"`
	PlateNumber  *string         `json:"plate_number,omitempty"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Premium      decimal.Decimal `json:"premium"`
	DaysLeft     *int            `json:"days_left,omitempty"`
}

// CustomerPolicyRow is one line of the customer-policies report
type CustomerPolicyRow struct {
	CustomerID   uint            `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	PolicyCount  int64           `json:"policy_count"`
	ActiveCount  int64           `json:"active_count"`
	TotalPremium decimal.Decimal `json:"total_premium"`
}

// BuildReport produces the report of the given kind
func (s *ReportService) BuildReport(ctx context.Context, kind enum.ReportKind, filter ReportFilter) (*Report, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.NewFieldError("end_date", "must not be before start_date")
	}

	report := &Report{
		Kind:        kind,
		GeneratedAt: s.now().UTC(),
		Filters:     filter,
	}

	var err error
	switch kind {
	case enum.ReportMonthly:
		err = s.periodReport(ctx, report, repository.PeriodMonth)
	case enum.ReportYearly:
		err = s.periodReport(ctx, report, repository.PeriodYear)
	case enum.ReportPolicyTypes:
		err = s.policyTypeReport(ctx, report)
	case enum.ReportCustomers:
		err = s.customerReport(ctx, report)
	case enum.ReportUnpaid:
		err = s.unpaidReport(ctx, report)
	case enum.ReportActivePolicies:
		err = s.activePolicyReport(ctx, report)
	case enum.ReportExpiring:
		err = s.expiringReport(ctx, report)
	case enum.ReportCustomerPolicies:
		err = s.customerPolicyReport(ctx, report)
	case enum.ReportLedger:
		err = s.ledgerReport(ctx, report)
	default:
		return nil, apperror.NewFieldError("kind", "unknown report kind")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) periodReport(ctx context.Context, report *Report, g repository.PeriodGranularity) error {
	results, err := s.reportRepo.PeriodTotals(ctx, g, report.Filters.dateRange())
	if err != nil {
		return err
	}

	rows := make([]PeriodRow, 0, len(results))
	income, expense := decimal.Zero, decimal.Zero
	var count int64
	report.table.headers = []string{"Dönem", "Gelir", "Gider", "Net", "İşlem Sayısı"}
	for _, r := range results {
		row := PeriodRow{
			Period:           r.Period,
			Income:           r.Income,
			Expense:          r.Expense,
			Net:              r.Income.Sub(r.Expense),
			TransactionCount: r.TransactionCount,
		}
		rows = append(rows, row)
		report.table.rows = append(report.table.rows, []interface{}{row.Period, row.Income, row.Expense, row.Net, row.TransactionCount})

		income = income.Add(r.Income)
		expense = expense.Add(r.Expense)
		count += r.TransactionCount
	}

	report.Rows = rows
	report.Summary = moneySummary(income, expense, count)
	return nil
}

func (s *ReportService) policyTypeReport(ctx context.Context, report *Report) error {
	results, err := s.reportRepo.PolicyTypeTotals(ctx, report.Filters.dateRange())
	if err != nil {
		return err
	}

	rows := make([]PolicyTypeRow, 0, len(results))
	premium := decimal.Zero
	var policies int64
	report.table.headers = []string{"Poliçe Türü", "Poliçe Sayısı", "Aktif", "Toplam Prim"}
	for _, r := range results {
		row := PolicyTypeRow(r)
		rows = append(rows, row)
		report.table.rows = append(report.table.rows, []interface{}{row.Type, row.PolicyCount, row.ActiveCount, row.TotalPremium})

		premium = premium.Add(r.TotalPremium)
		policies += r.PolicyCount
	}

	report.Rows = rows
	report.Summary = ReportSummary{TotalPolicies: &policies, TotalPremium: &premium}
	return nil
}

func (s *ReportService) customerReport(ctx context.Context, report *Report) error {
	results, err := s.reportRepo.CustomerTotals(ctx, report.Filters.dateRange())
	if err != nil {
		return err
	}
	results = filterCustomer(results, report.Filters.CustomerID, func(r *repository.CustomerTotalsResult) uint { return r.CustomerID })
	sortByTurkishName(results,
		func(r *repository.CustomerTotalsResult) string { return r.CustomerName },
		func(r *repository.CustomerTotalsResult) uint { return r.CustomerID },
	)

	rows := make([]CustomerRow, 0, len(results))
	income, expense := decimal.Zero, decimal.Zero
	var count int64
	report.table.headers = []string{"Müşteri No", "Müşteri", "Gelir", "Gider", "Bakiye", "İşlem Sayısı"}
	for _, r := range results {
		row := CustomerRow{
			CustomerID:       r.CustomerID,
			CustomerName:     r.CustomerName,
			Income:           r.Income,
			Expense:          r.Expense,
			Balance:          r.Income.Sub(r.Expense),
			TransactionCount: r.TransactionCount,
		}
		rows = append(rows, row)
		report.table.rows = append(report.table.rows, []interface{}{row.CustomerID, row.CustomerName, row.Income, row.Expense, row.Balance, row.TransactionCount})

		income = income.Add(r.Income)
		expense = expense.Add(r.Expense)
		count += r.TransactionCount
	}

	report.Rows = rows
	report.Summary = moneySummary(income, expense, count)
	customers := int64(len(rows))
	report.Summary.TotalCustomers = &customers
	return nil
}

// unpaidReport lists customers whose lifetime balance is negative. The date
// filters do not apply: a debt is outstanding regardless of when it was booked.
func (s *ReportService) unpaidReport(ctx context.Context, report *Report) error {
	results, err := s.reportRepo.CustomerTotals(ctx, repository.DateRange{})
	if err != nil {
		return err
	}
	results = filterCustomer(results, report.Filters.CustomerID, func(r *repository.CustomerTotalsResult) uint { return r.CustomerID })

	today := utils.DateOf(s.now())
	rows := make([]UnpaidRow, 0)
	outstanding := decimal.Zero
	for _, r := range results {
		balance := r.Income.Sub(r.Expense)
		if !balance.IsNegative() {
			continue
		}

		row := UnpaidRow{
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			NationalID:   r.NationalID,
			Phone:        r.Phone,
			Amount:       balance.Neg(),
		}
		last, err := s.reportRepo.LastTransaction(ctx, r.CustomerID)
		if err != nil {
			return err
		}
		if last != nil {
			d := last.TransactionDate
			row.LastTransactionDate = &d
			if days := utils.DaysBetween(d, today); days > 0 {
				row.DaysPastDue = days
			}
		}

		rows = append(rows, row)
		outstanding = outstanding.Add(row.Amount)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})

	report.table.headers = []string{"Müşteri No", "Müşteri", "TC Kimlik No", "Telefon", "Borç", "Son İşlem Tarihi", "Geciken Gün"}
	for _, row := range rows {
		report.table.rows = append(report.table.rows, []interface{}{row.CustomerID, row.CustomerName, row.NationalID, row.Phone, row.Amount, row.LastTransactionDate, row.DaysPastDue})
	}

	report.Rows = rows
	customers := int64(len(rows))
	report.Summary = ReportSummary{TotalCustomers: &customers, TotalOutstanding: &outstanding}
	return nil
}

func (s *ReportService) activePolicyReport(ctx context.Context, report *Report) error {
	policies, err := s.reportRepo.ActivePolicies(ctx, nil, nil)
	if err != nil {
		return err
	}
	policies = filterCustomer(policies, report.Filters.CustomerID, func(p *entity.Policy) uint { return p.CustomerID })

	rows, premium := s.policyRows(report, policies, nil)
	report.Rows = rows
	total := int64(len(rows))
	report.Summary = ReportSummary{TotalPolicies: &total, TotalPremium: &premium}
	return nil
}

// expiringReport lists Aktif policies with today <= end_date <= today+days
func (s *ReportService) expiringReport(ctx context.Context, report *Report) error {
	days := s.expiringDays
	if report.Filters.Days != nil {
		days = *report.Filters.Days
	}
	if days < 0 {
		return apperror.NewFieldError("days", "must not be negative")
	}
	report.Filters.Days = &days

	today := utils.DateOf(s.now())
	until := today.AddDate(0, 0, days)
	policies, err := s.reportRepo.ActivePolicies(ctx, &today, &until)
	if err != nil {
		return err
	}
	policies = filterCustomer(policies, report.Filters.CustomerID, func(p *entity.Policy) uint { return p.CustomerID })

	rows, _ := s.policyRows(report, policies, &today)
	report.Rows = rows
	total := int64(len(rows))
	report.Summary = ReportSummary{TotalPolicies: &total}
	return nil
}

// policyRows renders policies in repository order. A non-nil today adds days_left.
func (s *ReportService) policyRows(report *Report, policies []entity.Policy, today *time.Time) ([]PolicyRow, decimal.Decimal) {
	rows := make([]PolicyRow, 0, len(policies))
	premium := decimal.Zero

	report.table.headers = []string{"Poliçe No", "Müşteri", "Tür", "Plaka", "Başlangıç", "Bitiş", "Prim"}
	if today != nil {
		report.table.headers = append(report.table.headers, "Kalan Gün")
	}

	for _, p := range policies {
		row := PolicyRow{
			ID:           p.ID,
			PolicyNumber: p.PolicyNumber,
			CustomerName: p.CustomerName,
			Type:         p.Type,
			PlateNumber:  p.PlateNumber,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
			Premium:      p.Premium,
		}
		cells := []interface{}{row.PolicyNumber, row.CustomerName, row.Type, row.PlateNumber, row.StartDate, row.EndDate, row.Premium}
		if today != nil {
			left := utils.DaysBetween(*today, p.EndDate)
			row.DaysLeft = &left
			cells = append(cells, left)
		}

		rows = append(rows, row)
		report.table.rows = append(report.table.rows, cells)
		premium = premium.Add(p.Premium)
	}
	return rows, premium
}

func (s *ReportService) customerPolicyReport(ctx context.Context, report *Report) error {
	results, err := s.reportRepo.CustomerPolicyCounts(ctx)
	if err != nil {
		return err
	}
	results = filterCustomer(results, report.Filters.CustomerID, func(r *repository.CustomerPolicyCountResult) uint { return r.CustomerID })
	sortByTurkishName(results,
		func(r *repository.CustomerPolicyCountResult) string { return r.CustomerName },
		func(r *repository.CustomerPolicyCountResult) uint { return r.CustomerID },
	)

	rows := make([]CustomerPolicyRow, 0, len(results))
	var policies int64
	report.table.headers = []string{"Müşteri No", "Müşteri", "Poliçe Sayısı", "Aktif", "Toplam Prim"}
	for _, r := range results {
		row := CustomerPolicyRow(r)
		rows = append(rows, row)
		report.table.rows = append(report.table.rows, []interface{}{row.CustomerID, row.CustomerName, row.PolicyCount, row.ActiveCount, row.TotalPremium})
		policies += r.PolicyCount
	}

	report.Rows = rows
	customers := int64(len(rows))
	report.Summary = ReportSummary{TotalCustomers: &customers, TotalPolicies: &policies}
	return nil
}

func (s *ReportService) ledgerReport(ctx context.Context, report *Report) error {
	if report.Filters.CustomerID == nil {
		return apperror.NewFieldError("customer_id", "is required for the ledger report")
	}

	ledger, err := s.ledger.Ledger(ctx, *report.Filters.CustomerID, report.Filters.dateRange())
	if err != nil {
		return err
	}

	report.table.headers = []string{"Tarih", "Tür", "Tutar", "Bakiye", "Plaka", "Açıklama"}
	for _, e := range ledger.Entries {
		report.table.rows = append(report.table.rows, []interface{}{e.TransactionDate, e.Type, e.SignedAmount, e.RunningBalance, e.PlateNumber, e.Description})
	}

	report.Rows = ledger.Entries
	count := int64(len(ledger.Entries))
	report.Summary = moneySummary(ledger.TotalIncome, ledger.TotalExpense, count)
	report.Summary.OpeningBalance = &ledger.OpeningBalance
	return nil
}

func moneySummary(income, expense decimal.Decimal, count int64) ReportSummary {
	net := income.Sub(expense)
	return ReportSummary{
		TotalIncome:      &income,
		TotalExpense:     &expense,
		NetAmount:        &net,
		TransactionCount: &count,
	}
}

func filterCustomer[T any](items []T, customerID *uint, id func(*T) uint) []T {
	if customerID == nil {
		return items
	}
	out := items[:0]
	for i := range items {
		if id(&items[i]) == *customerID {
			out = append(out, items[i])
		}
	}
	return out
}
