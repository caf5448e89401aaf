package enum

import (
	"encoding/json"
	"fmt"
)

// PolicyType is the insurance branch of a policy
type PolicyType string

const (
	PolicyTypeKasko  PolicyType = "Kasko"
	PolicyTypeTrafik PolicyType = "Trafik"
	PolicyTypeKonut  PolicyType = "Konut"
	PolicyTypeSaglik PolicyType = "Sağlık"
	PolicyTypeHayat  PolicyType = "Hayat"
	PolicyTypeDiger  PolicyType = "Diğer"
)

// PolicyTypes lists every policy type in display order
var PolicyTypes = []PolicyType{
	PolicyTypeKasko,
	PolicyTypeTrafik,
	PolicyTypeKonut,
	PolicyTypeSaglik,
	PolicyTypeHayat,
	PolicyTypeDiger,
}

func (t PolicyType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known policy types
func (t PolicyType) IsValid() bool {
	for _, v := range PolicyTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ParsePolicyType converts a raw value into a PolicyType
func ParsePolicyType(s string) (PolicyType, error) {
	t := PolicyType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown policy type %q", s)
	}
	return t, nil
}

func (t *PolicyType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePolicyType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
