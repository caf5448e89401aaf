package enum

import "fmt"

// ReportKind selects one of the fixed report shapes
type ReportKind string

const (
	ReportMonthly          ReportKind = "monthly"
	ReportYearly           ReportKind = "yearly"
	ReportPolicyTypes      ReportKind = "policy-types"
	ReportCustomers        ReportKind = "customers"
	ReportUnpaid           ReportKind = "unpaid"
	ReportActivePolicies   ReportKind = "active-policies"
	ReportExpiring         ReportKind = "expiring"
	ReportCustomerPolicies ReportKind = "customer-policies"
	ReportLedger           ReportKind = "ledger"
)

var ReportKinds = []ReportKind{
	ReportMonthly,
	ReportYearly,
	ReportPolicyTypes,
	ReportCustomers,
	ReportUnpaid,
	ReportActivePolicies,
	ReportExpiring,
	ReportCustomerPolicies,
	ReportLedger,
}

func ParseReportKind(s string) (ReportKind, error) {
	for _, k := range ReportKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report kind %q", s)
}
