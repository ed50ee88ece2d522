package models

import "github.com/shopspring/decimal"

func init() {
	// Balances serialize as JSON numbers, matching the ledger file format.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account holds funds for exactly one user. Balance never goes negative
// after a committed operation. TransferPassword is the secondary credential
// required to move funds out of the account; empty means not yet set.
type Account struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	AccountNumber    string          `json:"accountNumber"`
	Balance          decimal.Decimal `json:"balance"`
	TransferPassword string          `json:"transfer_password,omitempty"`
}
