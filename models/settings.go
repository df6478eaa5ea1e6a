package models

// Settings is the single business-configuration record. When a remote store
// is configured the remote copy is authoritative; the local copy seeds the
// remote exactly once (first connect against an empty remote).
type Settings struct {
	CompanyName   string `json:"company_name"`
	Gstin         string `json:"gstin"`
	State         string `json:"state"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	PhoneRegion   string `json:"phone_region"`
	InvoicePrefix string `json:"invoice_prefix"`
	// UpdateStockOnInvoice decrements product stock when an invoice leaves
	// draft (sent or paid).
	UpdateStockOnInvoice bool `json:"update_stock_on_invoice"`
	ShowHsnColumn        bool `json:"show_hsn_column"`
	EnableActivityLog    bool `json:"enable_activity_log"`
}

func DefaultSettings() Settings {
	return Settings{
		CompanyName:          "My Business",
		InvoicePrefix:        "INV",
		PhoneRegion:          "IN",
		UpdateStockOnInvoice: true,
		ShowHsnColumn:        true,
		EnableActivityLog:    true,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	CompanyName          *string `json:"company_name"`
	Gstin                *string `json:"gstin"`
	State                *string `json:"state"`
	Address              *string `json:"address"`
	Phone                *string `json:"phone"`
	Email                *string `json:"email"`
	PhoneRegion          *string `json:"phone_region"`
	InvoicePrefix        *string `json:"invoice_prefix"`
	UpdateStockOnInvoice *bool   `json:"update_stock_on_invoice"`
	ShowHsnColumn        *bool   `json:"show_hsn_column"`
	EnableActivityLog    *bool   `json:"enable_activity_log"`
}

// Apply returns s with the patch's non-nil fields overlaid.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.CompanyName != nil {
		s.CompanyName = *p.CompanyName
	}
	if p.Gstin != nil {
		s.Gstin = *p.Gstin
	}
	if p.State != nil {
		s.State = *p.State
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.PhoneRegion != nil {
		s.PhoneRegion = *p.PhoneRegion
	}
	if p.InvoicePrefix != nil {
		s.InvoicePrefix = *p.InvoicePrefix
	}
	if p.UpdateStockOnInvoice != nil {
		s.UpdateStockOnInvoice = *p.UpdateStockOnInvoice
	}
	if p.ShowHsnColumn != nil {
		s.ShowHsnColumn = *p.ShowHsnColumn
	}
	if p.EnableActivityLog != nil {
		s.EnableActivityLog = *p.EnableActivityLog
	}
	return s
}
