package enum

import (
	"encoding/json"
	"fmt"
)

// AccountingType tells whether a ledger record is income or expense
type AccountingType string

const (
	AccountingTypeIncome  AccountingType = "Gelir"
	AccountingTypeExpense AccountingType = "Gider"
)

func (t AccountingType) String() string {
	return string(t)
}

func (t AccountingType) IsValid() bool {
	return t == AccountingTypeIncome || t == AccountingTypeExpense
}

// Sign is +1 for income and -1 for expense
func (t AccountingType) Sign() int {
	if t == AccountingTypeExpense {
		return -1
	}
	return 1
}

func ParseAccountingType(s string) (AccountingType, error) {
	t := AccountingType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown accounting type %q", s)
	}
	return t, nil
}

func (t *AccountingType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseAccountingType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
