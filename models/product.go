package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Sku        string          `json:"sku"`
	Hsn        string          `json:"hsn"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Stock      decimal.Decimal `json:"stock"`
	Unit       string          `json:"unit"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type NewProduct struct {
	ID         string          `json:"id"`
	Name       string          `json:"name" binding:"required"`
	Sku        string          `json:"sku"`
	Hsn        string          `json:"hsn"`
	Price      decimal.Decimal `json:"price"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Stock      decimal.Decimal `json:"stock"`
	Unit       string          `json:"unit"`
}

func (input *NewProduct) Validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return errors.New("product name is required")
	}
	if input.Price.IsNegative() {
		return errors.New("product price cannot be negative")
	}
	if input.TaxPercent.IsNegative() {
		return errors.New("product tax percent cannot be negative")
	}
	return nil
}
