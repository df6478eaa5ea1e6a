package models

// DomainSnapshot is the full business-data blob the local durable store
// persists after every mutating operation. Settings is a pointer so an
// unconfigured business ("no settings saved yet") is distinguishable from
// saved defaults; that distinction drives the local-seeds-remote rule.
type DomainSnapshot struct {
	Invoices  []Invoice  `json:"invoices"`
	Customers []Customer `json:"customers"`
	Products  []Product  `json:"products"`
	Purchases []Purchase `json:"purchases"`
	Settings  *Settings  `json:"settings"`
	Meta      Meta       `json:"meta"`
	Activity  []Activity `json:"activity"`
}

// Normalize defaults nil collections to empty slices so callers never branch
// on nil after a load or a restore of a partial payload.
func (s *DomainSnapshot) Normalize() {
	if s.Invoices == nil {
		s.Invoices = []Invoice{}
	}
	if s.Customers == nil {
		s.Customers = []Customer{}
	}
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Purchases == nil {
		s.Purchases = []Purchase{}
	}
	if s.Activity == nil {
		s.Activity = []Activity{}
	}
}

// IsEmpty reports whether the snapshot carries no domain data at all.
func (s *DomainSnapshot) IsEmpty() bool {
	return len(s.Invoices) == 0 && len(s.Customers) == 0 &&
		len(s.Products) == 0 && len(s.Purchases) == 0 &&
		s.Settings == nil && s.Meta.InvoiceSequence == 0
}

// BackupPayload is the exportable shape for backupData/restoreBackup. The
// activity log is deliberately excluded; it is device-local noise.
type BackupPayload struct {
	Invoices  []Invoice  `json:"invoices"`
	Customers []Customer `json:"customers"`
	Products  []Product  `json:"products"`
	Purchases []Purchase `json:"purchases"`
	Settings  *Settings  `json:"settings"`
	Meta      Meta       `json:"meta"`
}
