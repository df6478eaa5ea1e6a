package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSnapshot is the customer as it was at invoice-save time.
// It is a copy, not a live reference: later edits to the customer record
// must not change an already-issued invoice.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Gstin   string `json:"gstin"`
	Address string `json:"address"`
	State   string `json:"state"`
}

type InvoiceItem struct {
	ProductId   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Taxable     decimal.Decimal `json:"taxable"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type InvoiceTotals struct {
	Taxable    decimal.Decimal `json:"taxable"`
	Cgst       decimal.Decimal `json:"cgst"`
	Sgst       decimal.Decimal `json:"sgst"`
	Igst       decimal.Decimal `json:"igst"`
	RoundOff   decimal.Decimal `json:"round_off"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type Invoice struct {
	ID            string           `json:"id"`
	InvoiceNo     string           `json:"invoice_no"`
	Date          time.Time        `json:"date"`
	DueDate       time.Time        `json:"due_date"`
	CustomerId    string           `json:"customer_id,omitempty"`
	Customer      CustomerSnapshot `json:"customer"`
	Items         []InvoiceItem    `json:"items"`
	Totals        InvoiceTotals    `json:"totals"`
	Status        InvoiceStatus    `json:"status"`
	AmountPaid    decimal.Decimal  `json:"amount_paid"`
	Notes         string           `json:"notes"`
	ReverseCharge bool             `json:"reverse_charge"`
	// Synced is true when the invoice reached the remote store directly at
	// creation time, false when it was created offline or the write failed.
	Synced    bool      `json:"synced"`
	CreatedAt time.Time `json:"created_at"`
}

// NewInvoice is the save-invoice form. Totals are never taken from the
// caller; the engine recomputes them from Items.
type NewInvoice struct {
	ID            string           `json:"id"`
	Date          time.Time        `json:"date"`
	DueDate       time.Time        `json:"due_date"`
	CustomerId    string           `json:"customer_id"`
	Customer      CustomerSnapshot `json:"customer"`
	Items         []InvoiceItem    `json:"items"`
	AmountPaid    decimal.Decimal  `json:"amount_paid"`
	Notes         string           `json:"notes"`
	ReverseCharge bool             `json:"reverse_charge"`
}
