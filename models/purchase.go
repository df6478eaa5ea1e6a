package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseItem struct {
	ProductId   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// Purchase is an append-only supplier-bill ledger entry. The engine never
// edits a recorded purchase; corrections are recorded as new entries.
type Purchase struct {
	ID        string          `json:"id"`
	Supplier  string          `json:"supplier"`
	BillNo    string          `json:"bill_no"`
	Date      time.Time       `json:"date"`
	Items     []PurchaseItem  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type NewPurchase struct {
	Supplier string         `json:"supplier" binding:"required"`
	BillNo   string         `json:"bill_no"`
	Date     time.Time      `json:"date"`
	Items    []PurchaseItem `json:"items"`
}

func (input *NewPurchase) Validate() error {
	input.Supplier = strings.TrimSpace(input.Supplier)
	if input.Supplier == "" {
		return errors.New("supplier is required")
	}
	return nil
}
