package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatInvoiceNo builds `<prefix>-<YYYYMM>-<seq padded to 4>` from the
// invoice date and an already-advanced sequence value. Sequences past 9999
// widen naturally instead of wrapping.
func FormatInvoiceNo(prefix string, date time.Time, seq int64) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "INV"
	}
	if date.IsZero() {
		date = time.Now()
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, date.Format("200601"), seq)
}
