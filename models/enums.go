package models

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// Collection names the engine-addressable top-level paths on the remote
// live store. Each record is addressable as <collection>/<id>.
type Collection string

const (
	CollectionInvoices  Collection = "invoices"
	CollectionCustomers Collection = "customers"
	CollectionProducts  Collection = "products"
	CollectionPurchases Collection = "purchases"
	CollectionMeta      Collection = "meta"
	CollectionSettings  Collection = "settings"
	CollectionActivity  Collection = "activity"
)

// AllCollections is the subscription set, in the order subscriptions are
// opened at startup.
var AllCollections = []Collection{
	CollectionInvoices,
	CollectionCustomers,
	CollectionProducts,
	CollectionPurchases,
	CollectionMeta,
	CollectionSettings,
	CollectionActivity,
}
