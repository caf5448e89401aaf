package entity

import "github.com/shopspring/decimal"

func init() {
	// amounts are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}
