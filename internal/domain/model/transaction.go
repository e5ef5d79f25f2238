package model

import "github.com/shopspring/decimal"

// Transaction holds the fixed-schema attributes of a single transaction as
// consumed by the model: one numeric amount and five categorical fields.
// Field order matters to the preprocessing transform and mirrors the schema
// the artifacts were fitted on.
type Transaction struct {
	Amount   decimal.Decimal
	State    string
	CardType string
	Bank     string
	Category string
	Location string
}
