package models

import "testing"

func TestDomainSnapshotNormalize(t *testing.T) {
	var s DomainSnapshot
	s.Normalize()
	if s.Invoices == nil || s.Customers == nil || s.Products == nil || s.Purchases == nil || s.Activity == nil {
		t.Fatalf("collections must be non-nil after Normalize: %+v", s)
	}
	if s.Settings != nil {
		t.Fatalf("Normalize must not invent settings")
	}
}

func TestDomainSnapshotIsEmpty(t *testing.T) {
	var s DomainSnapshot
	if !s.IsEmpty() {
		t.Fatalf("zero snapshot should be empty")
	}
	s.Normalize()
	if !s.IsEmpty() {
		t.Fatalf("normalized empty snapshot should still be empty")
	}

	withSettings := DomainSnapshot{Settings: &Settings{}}
	if withSettings.IsEmpty() {
		t.Fatalf("saved settings count as data")
	}
	withSequence := DomainSnapshot{Meta: Meta{InvoiceSequence: 3}}
	if withSequence.IsEmpty() {
		t.Fatalf("advanced sequence counts as data")
	}
	withInvoice := DomainSnapshot{Invoices: []Invoice{{ID: "a"}}}
	if withInvoice.IsEmpty() {
		t.Fatalf("invoices count as data")
	}
}
