package utils

import (
	"strings"

	"bitbucket.org/mmdatafocus/gstbilling/models"
	"github.com/shopspring/decimal"
)

var (
	decimalZero       = decimal.NewFromInt(0)
	decimalTwo        = decimal.NewFromInt(2)
	decimalOneHundred = decimal.NewFromInt(100)
)

// ComputeInvoiceTotals recomputes per-line amounts in place and returns the
// invoice totals. Caller-supplied taxable/tax/total values are discarded.
//
// Intra-state supply (customer state == company state, case-insensitive)
// splits the tax evenly into CGST and SGST; inter-state supply books the
// whole amount as IGST. The grand total is rounded to the nearest whole
// unit and the rounding difference is recorded as round-off.
func ComputeInvoiceTotals(items []models.InvoiceItem, customerState string, companyState string) models.InvoiceTotals {
	taxable := decimalZero
	tax := decimalZero

	for i := range items {
		qty := clampNonNegative(items[i].Quantity)
		rate := clampNonNegative(items[i].Rate)
		lineTaxable := qty.Mul(rate)
		lineTax := lineTaxable.Mul(items[i].TaxPercent).DivRound(decimalOneHundred, 4)

		items[i].Quantity = qty
		items[i].Rate = rate
		items[i].Taxable = lineTaxable
		items[i].Tax = lineTax
		items[i].Total = lineTaxable.Add(lineTax)

		taxable = taxable.Add(lineTaxable)
		tax = tax.Add(lineTax)
	}

	totals := models.InvoiceTotals{
		Taxable:  taxable,
		Cgst:     decimalZero,
		Sgst:     decimalZero,
		Igst:     decimalZero,
		RoundOff: decimalZero,
	}
	if SameState(customerState, companyState) {
		half := tax.DivRound(decimalTwo, 4)
		totals.Cgst = half
		totals.Sgst = half
	} else {
		totals.Igst = tax
	}

	unrounded := taxable.Add(totals.Cgst).Add(totals.Sgst).Add(totals.Igst)
	totals.GrandTotal = unrounded.Round(0)
	totals.RoundOff = totals.GrandTotal.Sub(unrounded)
	return totals
}

// SameState compares state names case-insensitively, ignoring surrounding
// whitespace. Two empty states count as the same state.
func SameState(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimalZero
	}
	return d
}
