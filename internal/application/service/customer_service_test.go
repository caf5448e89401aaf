package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
)

func TestCreateCustomerValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "  ", NationalID: "12345"})
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadRequest || len(appErr.Errors) != 2 {
		t.Fatalf("expected name and national_id errors, got %+v", appErr)
	}

	_, err = env.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "Ali", NationalID: "1234567890a"})
	if err == nil {
		t.Fatalf("non-digit national id accepted")
	}
}

func TestCreateCustomerDuplicateNationalID(t *testing.T) {
	env := newTestEnv(t)
	env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")

	_, err := env.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "Başka Biri", NationalID: "12345678901"})
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadRequest || appErr.Message != "national id already exists" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListCustomersTurkishOrder(t *testing.T) {
	env := newTestEnv(t)
	for i, name := range []string{"Zeynep Ak", "İsmail Er", "Çağlar Oz", "Ilgaz Tan", "Cem Kaya"} {
		env.mustCustomer(t, name, "1000000000"+string(rune('0'+i)))
	}

	res, err := env.customers.ListCustomers(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := make([]string, 0, len(res.Items))
	for _, c := range res.Items {
		names = append(names, c.Name)
	}
	want := "Cem Kaya,Çağlar Oz,Ilgaz Tan,İsmail Er,Zeynep Ak"
	if strings.Join(names, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(names, ","))
	}

	page, _ := env.customers.ListCustomers(context.Background(), &pagination.PaginationParams{Page: 2, PerPage: 2}, "")
	if len(page.Items) != 2 || page.Items[0].Name != "Ilgaz Tan" || page.Pagination.Total != 5 {
		t.Fatalf("unexpected page %+v", page)
	}

	found, _ := env.customers.ListCustomers(context.Background(), nil, "kaya")
	if len(found.Items) != 1 || found.Items[0].Name != "Cem Kaya" {
		t.Fatalf("search failed: %+v", found.Items)
	}
}

func TestUpdateCustomerSyncsPolicies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	p := env.mustPolicy(t, c.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)

	_, err := env.customers.UpdateCustomer(ctx, &UpdateCustomerInput{ID: c.ID, Name: "Ahmet Yılmazer", NationalID: "12345678902"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := env.policies.GetPolicy(ctx, p.ID)
	if err != nil {
		t.Fatalf("get policy: %v", err)
	}
	if got.CustomerName != "Ahmet Yılmazer" || got.CustomerNationalID != "12345678902" {
		t.Fatalf("policy not synced: %s %s", got.CustomerName, got.CustomerNationalID)
	}
}

func TestDeleteCustomerBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	withPolicy := env.mustCustomer(t, "Ahmet Yılmaz", "12345678901")
	env.mustPolicy(t, withPolicy.ID, "", "2025-01-01", "2026-01-01", enum.PolicyStatusActive)
	err := env.customers.DeleteCustomer(ctx, withPolicy.ID)
	if err == nil || apperror.GetAppError(err).Message != "customer has policies and cannot be deleted" {
		t.Fatalf("expected policies conflict, got %v", err)
	}

	withRecord := env.mustCustomer(t, "Ayşe Demir", "10987654321")
	env.mustRecord(t, withRecord.ID, "2025-01-01", "10", enum.AccountingTypeIncome)
	err = env.customers.DeleteCustomer(ctx, withRecord.ID)
	if err == nil || apperror.GetAppError(err).Message != "customer has accounting records and cannot be deleted" {
		t.Fatalf("expected records conflict, got %v", err)
	}

	free := env.mustCustomer(t, "Cem Kaya", "11111111111")
	if err := env.customers.DeleteCustomer(ctx, free.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.customers.GetCustomer(ctx, free.ID); apperror.GetAppError(err).Code != http.StatusNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSearchCustomersTurkishCaseAndWildcards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustCustomer(t, "ŞAHİN Öztürk", "12345678901")
	env.mustCustomer(t, "Ilgaz Çelik", "10987654321")
	env.mustCustomer(t, "Yüzde_50 %Sigorta", "11111111111")

	cases := []struct {
		term string
		want []string
	}{
		{"şahin", []string{"ŞAHİN Öztürk"}},
		{"ÖZTÜRK", []string{"ŞAHİN Öztürk"}},
		{"ilgaz", []string{"Ilgaz Çelik"}},
		{"ÇELİK", []string{"Ilgaz Çelik"}},
		{"%", []string{"Yüzde_50 %Sigorta"}},
		{"e_5", []string{"Yüzde_50 %Sigorta"}},
		{"de_", []string{"Yüzde_50 %Sigorta"}},
		{"z_", nil},
	}
	for _, tc := range cases {
		res, err := env.customers.ListCustomers(ctx, nil, tc.term)
		if err != nil {
			t.Fatalf("search %q: %v", tc.term, err)
		}
		var got []string
		for _, c := range res.Items {
			got = append(got, c.Name)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("search %q: expected %v, got %v", tc.term, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("search %q: expected %v, got %v", tc.term, tc.want, got)
			}
		}
	}
}
