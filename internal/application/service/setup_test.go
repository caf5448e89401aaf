package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/infrastructure/database"
	infraRepo "github.com/sigortaci/acente-api/internal/infrastructure/repository"
	"github.com/sigortaci/acente-api/internal/infrastructure/storage"
	"github.com/sigortaci/acente-api/pkg/logger"
	"github.com/sigortaci/acente-api/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	store      *storage.LocalStorage
	customers  *CustomerService
	policies   *PolicyService
	files      *FileService
	accounting *AccountingService
	ledger     *LedgerService
	reports    *ReportService
	dashboard  *DashboardService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   "file:" + name + "?mode=memory&cache=shared",
	}, false, logger.Nop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	log := logger.Nop()

	customerRepo := infraRepo.NewCustomerRepository(db)
	policyRepo := infraRepo.NewPolicyRepository(db)
	fileRepo := infraRepo.NewPolicyFileRepository(db)
	accountingRepo := infraRepo.NewAccountingRepository(db)
	reportRepo := infraRepo.NewReportRepository(db)

	store := storage.NewLocalStorage(t.TempDir(), "/uploads")
	ledger := NewLedgerService(accountingRepo, customerRepo)

	return &testEnv{
		db:         db,
		store:      store,
		customers:  NewCustomerService(customerRepo),
		policies:   NewPolicyService(policyRepo, customerRepo, store, log),
		files:      NewFileService(policyRepo, fileRepo, store, 1<<20, log),
		accounting: NewAccountingService(accountingRepo, customerRepo, policyRepo),
		ledger:     ledger,
		reports:    NewReportService(reportRepo, ledger, 30),
		dashboard:  NewDashboardService(customerRepo, policyRepo, accountingRepo, reportRepo, 30),
	}
}

// fixedClock pins every time-dependent service to now
func (e *testEnv) fixedClock(now time.Time) {
	clock := func() time.Time { return now }
	e.policies.now = clock
	e.reports.now = clock
	e.dashboard.now = clock
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) mustCustomer(t *testing.T, name, nationalID string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: name, NationalID: nationalID})
	if err != nil {
		t.Fatalf("create customer %s: %v", name, err)
	}
	return c
}

func (e *testEnv) mustPolicy(t *testing.T, customerID uint, number string, start, end string, status enum.PolicyStatus) *entity.Policy {
	t.Helper()
	p, err := e.policies.CreatePolicy(context.Background(), &CreatePolicyInput{
		PolicyNumber: number,
		CustomerID:   customerID,
		StartDate:    date(t, start),
		EndDate:      date(t, end),
		Premium:      dec("1500.00"),
		Type:         enum.PolicyTypeKasko,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("create policy: %v", err)
	}
	return p
}

func (e *testEnv) mustRecord(t *testing.T, customerID uint, day string, amount string, typ enum.AccountingType) *entity.AccountingRecord {
	t.Helper()
	r, err := e.accounting.CreateRecord(context.Background(), &RecordInput{
		CustomerID:      &customerID,
		TransactionDate: date(t, day),
		Amount:          dec(amount),
		Type:            typ,
	})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	return r
}

func policyFilter() repository.PolicyFilter {
	return repository.PolicyFilter{}
}
