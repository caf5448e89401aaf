package enum

import (
	"encoding/json"
	"testing"
)

func TestParsePolicyType(t *testing.T) {
	for _, v := range []string{"Kasko", "Trafik", "Konut", "Sağlık", "Hayat", "Diğer"} {
		if _, err := ParsePolicyType(v); err != nil {
			t.Fatalf("%s: %v", v, err)
		}
	}
	if _, err := ParsePolicyType("Saglik"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestPolicyStatusJSON(t *testing.T) {
	var payload struct {
		Status PolicyStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"İptal"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Status != PolicyStatusCancelled {
		t.Fatalf("got %q", payload.Status)
	}
	if err := json.Unmarshal([]byte(`{"status":"Closed"}`), &payload); err == nil {
		t.Fatalf("unknown status accepted")
	}
}

func TestAccountingTypeSign(t *testing.T) {
	if AccountingTypeIncome.Sign() != 1 || AccountingTypeExpense.Sign() != -1 {
		t.Fatalf("unexpected signs")
	}
	if AccountingType("Borç").IsValid() {
		t.Fatalf("unknown type reported valid")
	}
}

func TestParseReportKind(t *testing.T) {
	if k, err := ParseReportKind("expiring"); err != nil || k != ReportExpiring {
		t.Fatalf("got %q %v", k, err)
	}
	if _, err := ParseReportKind("weekly"); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}
