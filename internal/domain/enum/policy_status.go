package enum

import (
	"encoding/json"
	"fmt"
)

// PolicyStatus represents the lifecycle state of a policy
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "Aktif"
	PolicyStatusPassive   PolicyStatus = "Pasif"
	PolicyStatusCancelled PolicyStatus = "İptal"
)

var PolicyStatuses = []PolicyStatus{
	PolicyStatusActive,
	PolicyStatusPassive,
	PolicyStatusCancelled,
}

func (s PolicyStatus) String() string {
	return string(s)
}

func (s PolicyStatus) IsValid() bool {
	for _, v := range PolicyStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ParsePolicyStatus(s string) (PolicyStatus, error) {
	st := PolicyStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown policy status %q", s)
	}
	return st, nil
}

func (s *PolicyStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePolicyStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
