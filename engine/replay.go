package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/models"
	"bitbucket.org/mmdatafocus/gstbilling/remote"
	"github.com/shopspring/decimal"
)

func decimalZero() decimal.Decimal { return decimal.NewFromInt(0) }

// SyncPendingInvoices runs one replay pass over the pending queue and
// returns how many records reached the remote. Safe to call any time; it is
// a no-op while offline, local-only, or when a pass is already in flight.
func (e *Engine) SyncPendingInvoices(ctx context.Context) int {
	return e.runReplay(ctx)
}

// runReplay drains the queue sequentially against the remote store. Passes
// never overlap (the syncing flag). Partial success is expected: the queue
// after a pass contains exactly the entries that failed, and stays queued
// for the next reconnect. An entry re-enqueued with new content while the
// pass was in flight also stays; only the payload that actually reached the
// remote leaves the queue.
func (e *Engine) runReplay(ctx context.Context) int {
	e.mu.Lock()
	if e.syncing || e.live == nil || len(e.pending) == 0 || !e.monitor.Online() {
		e.mu.Unlock()
		return 0
	}
	e.syncing = true
	batch := append([]models.Invoice{}, e.pending...)
	live := e.live
	e.mu.Unlock()

	synced := map[string]bool{}
	sentPayload := map[string][]byte{}
	for _, inv := range batch {
		if err := live.Put(ctx, models.CollectionInvoices, inv.ID, inv); err != nil {
			config.LogError(e.logger, "engine", "runReplay", "entry stays pending", inv.ID, err)
			continue
		}
		synced[inv.ID] = true
		if raw, err := json.Marshal(inv); err == nil {
			sentPayload[inv.ID] = raw
		}
	}

	e.mu.Lock()
	remaining := make([]models.Invoice, 0, len(e.pending))
	for _, inv := range e.pending {
		if synced[inv.ID] {
			raw, err := json.Marshal(inv)
			if err == nil && bytes.Equal(raw, sentPayload[inv.ID]) {
				continue
			}
		}
		remaining = append(remaining, inv)
	}
	e.pending = remaining
	e.store.SavePendingQueue(e.pending)
	if len(synced) > 0 {
		for i := range e.state.Invoices {
			if synced[e.state.Invoices[i].ID] {
				e.state.Invoices[i].Synced = true
			}
		}
		e.state.Activity = models.AppendActivity(e.state.Activity,
			fmt.Sprintf("%d invoice(s) synced", len(synced)), time.Now())
		e.persistLocked()
	}
	e.syncing = false
	e.mu.Unlock()
	return len(synced)
}

// scheduleResync arms the post-reconnect full resync. It fires once after a
// short fixed delay; the item-level queue replay runs independently, so both
// mechanisms may act in the same reconnection window. The redundancy is
// harmless, the writes are idempotent point-puts.
func (e *Engine) scheduleResync() {
	if !e.opts.AutoResync {
		return
	}
	time.AfterFunc(e.opts.ResyncDelay, func() {
		e.fullResync(context.Background())
	})
}

// fullResync pushes every collection wholesale to the remote. It heals any
// drift individual-record sync missed. Guarded against overlapping itself by
// the resyncing flag locally and a remote lock across processes.
func (e *Engine) fullResync(ctx context.Context) {
	e.mu.Lock()
	if e.resyncing || e.live == nil || !e.monitor.Online() {
		e.mu.Unlock()
		return
	}
	snap := e.state.snapshot()
	if snap.IsEmpty() {
		e.mu.Unlock()
		return
	}
	e.resyncing = true
	live := e.live
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.resyncing = false
		e.mu.Unlock()
	}()

	release, err := live.Lock(ctx, "full-resync", time.Minute)
	if err != nil {
		config.LogError(e.logger, "engine", "fullResync", "resync lock busy, skipping", nil, err)
		return
	}
	defer release()

	e.pushSnapshot(ctx, live, snap)
}

// pushSnapshot replaces every remote collection with the given snapshot.
// Per-collection failures are logged and the rest still push.
func (e *Engine) pushSnapshot(ctx context.Context, live remote.LiveStore, snap models.DomainSnapshot) {
	for collection, records := range collectionMaps(snap) {
		if err := live.Replace(ctx, collection, records); err != nil {
			config.LogError(e.logger, "engine", "pushSnapshot", string(collection), nil, err)
		}
	}
}

func collectionMaps(snap models.DomainSnapshot) map[models.Collection]map[string]any {
	out := map[models.Collection]map[string]any{}

	invoices := map[string]any{}
	for _, inv := range snap.Invoices {
		invoices[inv.ID] = inv
	}
	out[models.CollectionInvoices] = invoices

	customers := map[string]any{}
	for _, c := range snap.Customers {
		customers[c.ID] = c
	}
	out[models.CollectionCustomers] = customers

	products := map[string]any{}
	for _, p := range snap.Products {
		products[p.ID] = p
	}
	out[models.CollectionProducts] = products

	purchases := map[string]any{}
	for _, p := range snap.Purchases {
		purchases[p.ID] = p
	}
	out[models.CollectionPurchases] = purchases

	out[models.CollectionMeta] = map[string]any{"meta": snap.Meta}
	if snap.Settings != nil {
		out[models.CollectionSettings] = map[string]any{"settings": *snap.Settings}
	}

	activity := map[string]any{}
	for i, entry := range snap.Activity {
		activity[strconv.FormatInt(entry.Date.UnixNano(), 10)+"-"+strconv.Itoa(i)] = entry
	}
	out[models.CollectionActivity] = activity

	return out
}
