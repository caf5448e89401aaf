package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

func TestRecordDerivesCustomerFromPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	plate := "34 abc  123"
	p, err := env.policies.CreatePolicy(ctx, &CreatePolicyInput{
		CustomerID:  c.ID,
		PlateNumber: &plate,
		StartDate:   date(t, "2025-01-01"),
		EndDate:     date(t, "2026-01-01"),
		Premium:     dec("1200"),
		Type:        enum.PolicyTypeTrafik,
	})
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if p.PlateNumber == nil || *p.PlateNumber != "34 ABC 123" {
		t.Fatalf("plate not normalized: %v", p.PlateNumber)
	}

	r, err := env.accounting.CreateRecord(ctx, &RecordInput{
		PolicyID:        &p.ID,
		TransactionDate: date(t, "2025-01-02"),
		Amount:          dec("1200.456"),
		Type:            enum.AccountingTypeIncome,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if r.CustomerID != c.ID {
		t.Fatalf("customer not derived from policy: %d", r.CustomerID)
	}
	if r.PlateNumber == nil || *r.PlateNumber != "34 ABC 123" {
		t.Fatalf("plate not copied from policy: %v", r.PlateNumber)
	}
	if !r.Amount.Equal(dec("1200.46")) {
		t.Fatalf("amount should be rounded to cents, got %s", r.Amount)
	}
	if r.Customer == nil || r.Customer.Name != "Ahmet Yılmaz" {
		t.Fatalf("customer not loaded on returned record")
	}
}

func TestRecordPolicyCustomerMismatch(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	b := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	p := env.mustPolicy(t, a.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)

	_, err := env.accounting.CreateRecord(context.Background(), &RecordInput{
		CustomerID:      &b.ID,
		PolicyID:        &p.ID,
		TransactionDate: date(t, "2025-01-02"),
		Amount:          dec("10"),
		Type:            enum.AccountingTypeIncome,
	})
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadRequest || len(appErr.Errors) == 0 {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.accounting.CreateRecord(context.Background(), &RecordInput{
		Amount: dec("-5"),
		Type:   enum.AccountingType("Borç"),
	})
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadRequest || len(appErr.Errors) < 3 {
		t.Fatalf("expected several field errors, got %+v", appErr)
	}
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	r := env.mustRecord(t, c.ID, "2025-05-01", "100", enum.AccountingTypeIncome)

	updated, err := env.accounting.UpdateRecord(ctx, r.ID, &RecordInput{
		CustomerID:      &c.ID,
		TransactionDate: date(t, "2025-05-02"),
		Amount:          dec("80"),
		Type:            enum.AccountingTypeExpense,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Type != enum.AccountingTypeExpense || !updated.Amount.Equal(dec("80")) {
		t.Fatalf("unexpected record %+v", updated)
	}

	b, _ := env.ledger.Balance(ctx, c.ID, repository.DateRange{})
	if !b.Balance.Equal(dec("-80")) {
		t.Fatalf("expected -80, got %s", b.Balance)
	}

	if err := env.accounting.DeleteRecord(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.accounting.GetRecord(ctx, r.ID); apperror.GetAppError(err).Code != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRecordsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	b := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	env.mustRecord(t, a.ID, "2025-01-01", "10", enum.AccountingTypeIncome)
	env.mustRecord(t, a.ID, "2025-02-01", "20", enum.AccountingTypeExpense)
	env.mustRecord(t, b.ID, "2025-03-01", "30", enum.AccountingTypeIncome)

	all, err := env.accounting.ListRecords(ctx, repository.AccountingFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Items) != 3 || all.Items[0].CustomerID != b.ID {
		t.Fatalf("expected newest first, got %+v", all.Items)
	}

	income := enum.AccountingTypeIncome
	filtered, _ := env.accounting.ListRecords(ctx, repository.AccountingFilter{CustomerID: &a.ID, Type: &income})
	if len(filtered.Items) != 1 || !filtered.Items[0].Amount.Equal(dec("10")) {
		t.Fatalf("unexpected filtered list %+v", filtered.Items)
	}
}
