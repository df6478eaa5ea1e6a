package models

import "time"

// Meta holds the invoice-sequence counter. The counter only advances when a
// new invoice is created, never on edit, and is never decremented or reused;
// that is what keeps generated invoice numbers unique across restarts.
type Meta struct {
	InvoiceSequence int64 `json:"invoice_sequence"`
}

// Activity is one human-readable audit entry. The log keeps only the 20 most
// recent entries; it is a convenience trail, not a correctness structure.
type Activity struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

const activityLimit = 20

// AppendActivity prepends an entry and trims the log to its bound.
func AppendActivity(log []Activity, text string, at time.Time) []Activity {
	out := append([]Activity{{Date: at, Text: text}}, log...)
	if len(out) > activityLimit {
		out = out[:activityLimit]
	}
	return out
}
