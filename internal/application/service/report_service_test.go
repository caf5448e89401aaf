package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	infraRepo "github.com/sigortaci/acente-api/internal/infrastructure/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/email"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var june1 = time.Date(2025, time.June, 1, 10, 30, 0, 0, time.UTC)

func TestUnpaidReport(t *testing.T) {
	env := newTestEnv(t)
	env.fixedClock(june1)
	ahmet := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	ayse := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	cem := env.mustCustomer(t, "Cem Kaya", "11111111111")

	env.mustRecord(t, ahmet.ID, "2025-03-01", "1000", enum.AccountingTypeIncome)
	env.mustRecord(t, ahmet.ID, "2025-03-02", "500", enum.AccountingTypeExpense)
	env.mustRecord(t, ayse.ID, "2025-03-03", "3000", enum.AccountingTypeExpense)
	env.mustRecord(t, cem.ID, "2025-05-01", "400", enum.AccountingTypeExpense)

	start := date(t, "2025-05-01")
	report, err := env.reports.BuildReport(context.Background(), enum.ReportUnpaid, ReportFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	rows := report.Rows.([]UnpaidRow)
	if len(rows) != 2 {
		t.Fatalf("expected two debtors, got %+v", rows)
	}
	if rows[0].CustomerID != ayse.ID || !rows[0].Amount.Equal(dec("3000")) {
		t.Fatalf("largest debt should come first: %+v", rows[0])
	}
	if rows[0].DaysPastDue != 90 {
		t.Fatalf("expected 90 days past due, got %d", rows[0].DaysPastDue)
	}
	if rows[1].CustomerID != cem.ID || !rows[1].Amount.Equal(dec("400")) {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
	if !report.Summary.TotalOutstanding.Equal(dec("3400")) {
		t.Fatalf("unexpected outstanding %s", report.Summary.TotalOutstanding)
	}
}

func TestExpiringReport(t *testing.T) {
	env := newTestEnv(t)
	env.fixedClock(june1)
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")

	late := env.mustPolicy(t, c.ID, "", "2024-06-20", "2025-06-20", enum.PolicyStatusActive)
	soon := env.mustPolicy(t, c.ID, "", "2024-06-05", "2025-06-05", enum.PolicyStatusActive)
	env.mustPolicy(t, c.ID, "", "2024-08-01", "2025-08-01", enum.PolicyStatusActive)
	env.mustPolicy(t, c.ID, "", "2024-06-10", "2025-06-10", enum.PolicyStatusPassive)
	env.mustPolicy(t, c.ID, "", "2024-05-31", "2025-05-31", enum.PolicyStatusActive)
	today := env.mustPolicy(t, c.ID, "", "2024-06-01", "2025-06-01", enum.PolicyStatusActive)

	report, err := env.reports.BuildReport(context.Background(), enum.ReportExpiring, ReportFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Filters.Days == nil || *report.Filters.Days != 30 {
		t.Fatalf("default window should be echoed back as 30 days")
	}

	rows := report.Rows.([]PolicyRow)
	wantIDs := []uint{today.ID, soon.ID, late.ID}
	wantLeft := []int{0, 4, 19}
	if len(rows) != len(wantIDs) {
		t.Fatalf("expected %d rows, got %+v", len(wantIDs), rows)
	}
	for i, row := range rows {
		if row.ID != wantIDs[i] || row.DaysLeft == nil || *row.DaysLeft != wantLeft[i] {
			t.Fatalf("row %d: unexpected %+v", i, row)
		}
	}

	days := 7
	narrow, _ := env.reports.BuildReport(context.Background(), enum.ReportExpiring, ReportFilter{Days: &days})
	if n := len(narrow.Rows.([]PolicyRow)); n != 2 {
		t.Fatalf("7 day window should hold 2 policies, got %d", n)
	}

	negative := -1
	_, err = env.reports.BuildReport(context.Background(), enum.ReportExpiring, ReportFilter{Days: &negative})
	if apperror.GetAppError(err).Code != http.StatusBadRequest {
		t.Fatalf("negative days should be rejected, got %v", err)
	}
}

func TestMonthlyReport(t *testing.T) {
	env := newTestEnv(t)
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	env.mustRecord(t, c.ID, "2025-01-05", "1000", enum.AccountingTypeIncome)
	env.mustRecord(t, c.ID, "2025-01-20", "250.25", enum.AccountingTypeExpense)
	env.mustRecord(t, c.ID, "2025-03-01", "300", enum.AccountingTypeIncome)

	report, err := env.reports.BuildReport(context.Background(), enum.ReportMonthly, ReportFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	rows := report.Rows.([]PeriodRow)
	if len(rows) != 2 {
		t.Fatalf("expected two months, got %+v", rows)
	}
	if rows[0].Period != "2025-01" || !rows[0].Net.Equal(dec("749.75")) || rows[0].TransactionCount != 2 {
		t.Fatalf("unexpected january %+v", rows[0])
	}
	if rows[1].Period != "2025-03" || !rows[1].Income.Equal(dec("300")) {
		t.Fatalf("unexpected march %+v", rows[1])
	}
	if !report.Summary.NetAmount.Equal(dec("1049.75")) || *report.Summary.TransactionCount != 3 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}

	yearly, _ := env.reports.BuildReport(context.Background(), enum.ReportYearly, ReportFilter{})
	if y := yearly.Rows.([]PeriodRow); len(y) != 1 || y[0].Period != "2025" {
		t.Fatalf("unexpected yearly rows %+v", y)
	}
}

func TestReportRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	start, end := date(t, "2025-02-01"), date(t, "2025-01-01")

	_, err := env.reports.BuildReport(context.Background(), enum.ReportMonthly, ReportFilter{StartDate: &start, EndDate: &end})
	if apperror.GetAppError(err).Code != http.StatusBadRequest {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = env.reports.BuildReport(context.Background(), enum.ReportLedger, ReportFilter{})
	if apperror.GetAppError(err).Code != http.StatusBadRequest {
		t.Fatalf("ledger without customer should be rejected, got %v", err)
	}
}

func TestCustomerPoliciesReportIncludesEmptyCustomers(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCustomer(t, "Zeynep Ak", "12345678901")
	b := env.mustCustomer(t, "Cem Kaya", "11111111111")
	env.mustPolicy(t, a.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)
	env.mustPolicy(t, a.ID, "", "2024-01-01", "2025-01-01", enum.PolicyStatusPassive)

	report, err := env.reports.BuildReport(context.Background(), enum.ReportCustomerPolicies, ReportFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	rows := report.Rows.([]CustomerPolicyRow)
	if len(rows) != 2 {
		t.Fatalf("expected both customers, got %+v", rows)
	}
	if rows[0].CustomerID != b.ID || rows[0].PolicyCount != 0 || !rows[0].TotalPremium.IsZero() {
		t.Fatalf("customer without policies should be listed first with zero counts: %+v", rows[0])
	}
	if rows[1].PolicyCount != 2 || rows[1].ActiveCount != 1 || !rows[1].TotalPremium.Equal(dec("3000")) {
		t.Fatalf("unexpected counts %+v", rows[1])
	}
}

func TestPolicyTypeAndCustomerReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	b := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	env.mustPolicy(t, a.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)
	env.mustPolicy(t, b.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusCancelled)
	env.mustRecord(t, a.ID, "2025-01-01", "1000", enum.AccountingTypeIncome)
	env.mustRecord(t, b.ID, "2025-01-01", "200", enum.AccountingTypeExpense)

	types, err := env.reports.BuildReport(ctx, enum.ReportPolicyTypes, ReportFilter{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	rows := types.Rows.([]PolicyTypeRow)
	if len(rows) != 1 || rows[0].Type != enum.PolicyTypeKasko || rows[0].PolicyCount != 2 || rows[0].ActiveCount != 1 {
		t.Fatalf("unexpected type rows %+v", rows)
	}

	customers, err := env.reports.BuildReport(ctx, enum.ReportCustomers, ReportFilter{CustomerID: &b.ID})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	crow := customers.Rows.([]CustomerRow)
	if len(crow) != 1 || !crow[0].Balance.Equal(dec("-200")) {
		t.Fatalf("unexpected customer rows %+v", crow)
	}

	active, _ := env.reports.BuildReport(ctx, enum.ReportActivePolicies, ReportFilter{})
	if n := len(active.Rows.([]PolicyRow)); n != 1 {
		t.Fatalf("expected one active policy, got %d", n)
	}
}

func TestLedgerReport(t *testing.T) {
	env := newTestEnv(t)
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	env.mustRecord(t, c.ID, "2025-01-01", "1000", enum.AccountingTypeIncome)
	env.mustRecord(t, c.ID, "2025-02-01", "400", enum.AccountingTypeExpense)

	from := date(t, "2025-02-01")
	report, err := env.reports.BuildReport(context.Background(), enum.ReportLedger, ReportFilter{CustomerID: &c.ID, StartDate: &from})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	entries := report.Rows.([]LedgerEntry)
	if len(entries) != 1 || !entries[0].RunningBalance.Equal(dec("600")) {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if !report.Summary.OpeningBalance.Equal(dec("1000")) {
		t.Fatalf("unexpected opening %s", report.Summary.OpeningBalance)
	}
}

func TestExportReport(t *testing.T) {
	env := newTestEnv(t)
	env.fixedClock(june1)
	c := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	env.mustRecord(t, c.ID, "2025-03-03", "3000", enum.AccountingTypeExpense)

	buf, name, err := env.reports.ExportReport(context.Background(), enum.ReportUnpaid, ReportFilter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "unpaid-20250601.xlsx" {
		t.Fatalf("unexpected file name %s", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("unpaid")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %v", rows)
	}
	if rows[0][1] != "Müşteri" || rows[1][1] != "Ayşe Demir" {
		t.Fatalf("unexpected sheet contents %v", rows)
	}
	if rows[1][4] != "3000" || rows[1][5] != "2025-03-03" {
		t.Fatalf("unexpected amount or date cells %v", rows[1])
	}

	_, _, err = env.reports.ExportReport(context.Background(), enum.ReportKind("weekly"), ReportFilter{})
	if apperror.GetAppError(err).Code != http.StatusBadRequest {
		t.Fatalf("unknown kind should be rejected, got %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	env.fixedClock(june1)
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	env.mustCustomer(t, "Cem Kaya", "11111111111")
	env.mustPolicy(t, c.ID, "", "2024-06-10", "2025-06-10", enum.PolicyStatusActive)
	env.mustPolicy(t, c.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)
	env.mustPolicy(t, c.ID, "", "2024-01-01", "2025-01-01", enum.PolicyStatusPassive)
	env.mustRecord(t, c.ID, "2025-05-31", "999", enum.AccountingTypeIncome)
	env.mustRecord(t, c.ID, "2025-06-01", "700", enum.AccountingTypeIncome)
	env.mustRecord(t, c.ID, "2025-06-30", "200", enum.AccountingTypeExpense)

	stats, err := env.dashboard.GetDashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCustomers != 2 || stats.TotalPolicies != 3 || stats.ActivePolicies != 2 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.ExpiringSoon != 1 || len(stats.ExpiringPolicies) != 1 {
		t.Fatalf("expected one expiring policy, got %+v", stats)
	}
	if !stats.MonthlyIncome.Equal(dec("700")) || !stats.MonthlyNet.Equal(dec("500")) {
		t.Fatalf("unexpected monthly totals %s %s", stats.MonthlyIncome, stats.MonthlyNet)
	}
}

func TestMaintenanceRunOnce(t *testing.T) {
	env := newTestEnv(t)
	env.fixedClock(time.Now())
	ctx := context.Background()
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	today := time.Now().UTC().Format("2006-01-02")
	env.mustPolicy(t, c.ID, "", "2024-01-01", today, enum.PolicyStatusActive)

	keys := infraRepo.NewIdempotencyRepository(env.db)
	user := uuid.New()
	for i, expires := range []time.Time{time.Now().Add(-time.Hour), time.Now().Add(time.Hour)} {
		err := keys.Create(ctx, &entity.IdempotencyKey{
			Key: "k" + string(rune('a'+i)), UserID: user, Endpoint: "POST /api/v1/customers",
			ResponseCode: 201, ExpiresAt: expires,
		})
		if err != nil {
			t.Fatalf("seed key: %v", err)
		}
	}

	core, logs := observer.New(zap.InfoLevel)
	notifier := &recordingNotifier{}
	NewMaintenanceService(keys, env.reports, zap.New(core)).WithNotifier(notifier).RunOnce(ctx)

	purged := logs.FilterMessage("Purged expired idempotency keys").All()
	if len(purged) != 1 || purged[0].ContextMap()["count"] != int64(1) {
		t.Fatalf("expected one purged key, got %+v", purged)
	}
	if n := logs.FilterMessage("Policy expiring soon").Len(); n != 1 {
		t.Fatalf("expected one digest line, got %d", n)
	}
	if got, _ := keys.GetByKey(ctx, "kb", user); got == nil {
		t.Fatalf("live key should survive")
	}
	if !strings.HasPrefix(logs.All()[0].Message, "Purged") {
		t.Fatalf("purge should run first")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].CustomerName != "Ahmet Yılmaz" || notifier.sent[0].DaysLeft != 0 {
		t.Fatalf("unexpected digest %+v", notifier.sent)
	}
}

type recordingNotifier struct {
	sent []email.ExpiringPolicy
}

func (n *recordingNotifier) SendExpiringDigest(_ context.Context, policies []email.ExpiringPolicy) error {
	n.sent = append(n.sent, policies...)
	return nil
}
