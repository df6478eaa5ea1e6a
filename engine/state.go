package engine

import (
	"encoding/json"
	"strings"

	"bitbucket.org/mmdatafocus/gstbilling/models"
	"bitbucket.org/mmdatafocus/gstbilling/remote"
)

// State is the in-memory domain state the UI layer reads. It is mutated only
// through the engine, which mirrors every mutation to the local store. Two
// event sources feed it: local operations (optimistic) and remote snapshot
// events applied through ApplySnapshot; whichever lands last wins for a
// collection, which is the documented conflict policy.
type State struct {
	Invoices  []models.Invoice
	Customers []models.Customer
	Products  []models.Product
	Purchases []models.Purchase
	Settings  *models.Settings
	Meta      models.Meta
	Activity  []models.Activity
}

func newState() State {
	return State{
		Invoices:  []models.Invoice{},
		Customers: []models.Customer{},
		Products:  []models.Product{},
		Purchases: []models.Purchase{},
		Activity:  []models.Activity{},
	}
}

func (s *State) loadSnapshot(snap *models.DomainSnapshot) {
	if snap == nil {
		return
	}
	snap.Normalize()
	s.Invoices = snap.Invoices
	s.Customers = snap.Customers
	s.Products = snap.Products
	s.Purchases = snap.Purchases
	s.Settings = snap.Settings
	s.Meta = snap.Meta
	s.Activity = snap.Activity
}

func (s *State) snapshot() models.DomainSnapshot {
	snap := models.DomainSnapshot{
		Invoices:  append([]models.Invoice{}, s.Invoices...),
		Customers: append([]models.Customer{}, s.Customers...),
		Products:  append([]models.Product{}, s.Products...),
		Purchases: append([]models.Purchase{}, s.Purchases...),
		Meta:      s.Meta,
		Activity:  append([]models.Activity{}, s.Activity...),
	}
	if s.Settings != nil {
		cp := *s.Settings
		snap.Settings = &cp
	}
	return snap
}

// settings returns the effective settings, falling back to defaults when the
// business has not saved any yet.
func (s *State) settings() models.Settings {
	if s.Settings != nil {
		return *s.Settings
	}
	return models.DefaultSettings()
}

// ApplySnapshot is the reducer for remote change events: it replaces the
// named collection wholesale with the normalized remote snapshot. Malformed
// records are skipped, never fatal. Meta is adopted only when it does not
// regress the local invoice sequence (the counter must never go backwards),
// and an empty remote settings snapshot leaves local settings untouched (the
// caller decides whether to seed the remote).
func (s *State) ApplySnapshot(collection models.Collection, records []remote.Record) {
	switch collection {
	case models.CollectionInvoices:
		s.Invoices = decodeRecords[models.Invoice](records)
	case models.CollectionCustomers:
		s.Customers = decodeRecords[models.Customer](records)
	case models.CollectionProducts:
		s.Products = decodeRecords[models.Product](records)
	case models.CollectionPurchases:
		s.Purchases = decodeRecords[models.Purchase](records)
	case models.CollectionActivity:
		s.Activity = decodeRecords[models.Activity](records)
	case models.CollectionMeta:
		for _, rec := range records {
			var meta models.Meta
			if err := json.Unmarshal(rec.Data, &meta); err != nil {
				continue
			}
			if meta.InvoiceSequence > s.Meta.InvoiceSequence {
				s.Meta = meta
			}
		}
	case models.CollectionSettings:
		for _, rec := range records {
			var settings models.Settings
			if err := json.Unmarshal(rec.Data, &settings); err != nil {
				continue
			}
			s.Settings = &settings
			break
		}
	}
}

func (s *State) clearCollection(collection models.Collection) {
	s.ApplySnapshot(collection, nil)
}

func decodeRecords[T any](records []remote.Record) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Seed-data detection. First-run demo datasets from shared remotes must not
// silently become real business data, so an incoming collection whose every
// record carries a known sample marker is treated as contamination and
// purged. The denylist is a fixed heuristic carried over as-is; a real
// customer named exactly like a demo entry would be wrongly purged. Known
// limitation, kept deliberately.
var (
	seedIdPrefixes = []string{"seed-", "demo-", "sample-"}
	seedNames      = map[string]struct{}{
		"sample customer": {},
		"demo customer":   {},
		"acme traders":    {},
		"sample product":  {},
		"demo product":    {},
		"test product":    {},
	}
)

type seedProbe struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SeedContaminated reports whether a non-empty remote snapshot consists
// entirely of known sample records. Only the free-merged entity collections
// are checked; settings/meta/activity carry no seed markers.
func SeedContaminated(collection models.Collection, records []remote.Record) bool {
	switch collection {
	case models.CollectionInvoices, models.CollectionCustomers, models.CollectionProducts:
	default:
		return false
	}
	if len(records) == 0 {
		return false
	}
	for _, rec := range records {
		var probe seedProbe
		if err := json.Unmarshal(rec.Data, &probe); err != nil {
			return false
		}
		if !isSeedRecord(rec.ID, probe) {
			return false
		}
	}
	return true
}

func isSeedRecord(id string, probe seedProbe) bool {
	if probe.ID != "" {
		id = probe.ID
	}
	for _, prefix := range seedIdPrefixes {
		if strings.HasPrefix(strings.ToLower(id), prefix) {
			return true
		}
	}
	if _, ok := seedNames[strings.ToLower(strings.TrimSpace(probe.Name))]; ok {
		return true
	}
	return false
}
