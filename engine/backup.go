package engine

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/models"
)

// BackupData exports the full portable snapshot. The activity log stays on
// the device; everything else round-trips through RestoreBackup.
func (e *Engine) BackupData() models.BackupPayload {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.state.snapshot()
	return models.BackupPayload{
		Invoices:  snap.Invoices,
		Customers: snap.Customers,
		Products:  snap.Products,
		Purchases: snap.Purchases,
		Settings:  snap.Settings,
		Meta:      snap.Meta,
	}
}

// RestoreBackup replaces in-memory and local state with the payload. Missing
// collections default to empty, a missing settings block keeps the current
// one, and the sequence counter never regresses below its current value.
// With a remote configured the restored snapshot is pushed up wholesale.
func (e *Engine) RestoreBackup(ctx context.Context, payload models.BackupPayload) error {
	e.mu.Lock()
	snap := models.DomainSnapshot{
		Invoices:  payload.Invoices,
		Customers: payload.Customers,
		Products:  payload.Products,
		Purchases: payload.Purchases,
		Settings:  payload.Settings,
		Meta:      payload.Meta,
		Activity:  e.state.Activity,
	}
	snap.Normalize()
	if snap.Settings == nil {
		snap.Settings = e.state.Settings
	}
	if snap.Meta.InvoiceSequence < e.state.Meta.InvoiceSequence {
		snap.Meta = e.state.Meta
	}
	e.state.loadSnapshot(&snap)
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, "Backup restored", time.Now())
	}
	e.persistLocked()
	pushed := e.state.snapshot()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		e.pushSnapshot(ctx, live, pushed)
	}
	return nil
}
