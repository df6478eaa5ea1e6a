// Package remote adapts the engine to a cloud live store. The engine only
// sees the LiveStore interface and normalized ordered snapshots; everything
// wire-shaped stays on this side of the boundary.
package remote

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/models"
)

// Record is one remote record in normalized form: an opaque id plus the raw
// JSON payload. Collections arrive as ordered lists of these regardless of
// how the wire encoded them (array or map-of-id-to-record).
type Record struct {
	ID   string
	Data json.RawMessage
}

// Handler receives the full normalized snapshot of one collection on every
// remote change event. Handlers run on the adapter's subscription goroutine.
type Handler func(records []Record)

// ReleaseFunc releases a held lock. Safe to call once.
type ReleaseFunc func()

// LiveStore is the remote half of the dual-persistence model. A nil LiveStore
// means local-only mode; the engine checks for that, implementations do not
// need nil-receiver guards.
type LiveStore interface {
	Connect(ctx context.Context) error
	Disconnect() error

	// Put writes a single record at <collection>/<id>.
	Put(ctx context.Context, collection models.Collection, id string, record any) error
	// Delete removes a single record.
	Delete(ctx context.Context, collection models.Collection, id string) error
	// Replace overwrites the whole collection wholesale.
	Replace(ctx context.Context, collection models.Collection, records map[string]any) error
	// Clear empties a collection (seed-data purge path).
	Clear(ctx context.Context, collection models.Collection) error
	// Fetch reads the current normalized snapshot of a collection.
	Fetch(ctx context.Context, collection models.Collection) ([]Record, error)
	// Subscribe delivers the current snapshot immediately, then again on
	// every subsequent change to the collection.
	Subscribe(collection models.Collection, handler Handler) error

	// Lock obtains a named remote lock, used to keep full resyncs from
	// overlapping. Returns an error when the lock is already held.
	Lock(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error)
}

// NormalizeRecords turns a fetched id->json map into the ordered-list form
// the engine consumes. Order is by id so repeated fetches are stable.
func NormalizeRecords(raw map[string]string) []Record {
	records := make([]Record, 0, len(raw))
	for id, data := range raw {
		records = append(records, Record{ID: id, Data: json.RawMessage(data)})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// NormalizePayload accepts a whole-collection JSON payload in either wire
// shape (an array of records carrying their own "id", or a map of id to
// record) and returns the ordered-list form. Unrecognized shapes normalize
// to an empty snapshot rather than an error; a malformed remote dump must
// degrade, not wedge the subscription.
func NormalizePayload(raw json.RawMessage) []Record {
	if len(raw) == 0 {
		return []Record{}
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err == nil {
		records := make([]Record, 0, len(asMap))
		for id, data := range asMap {
			records = append(records, Record{ID: id, Data: data})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		return records
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		records := make([]Record, 0, len(asArray))
		for _, data := range asArray {
			var probe struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(data, &probe); err != nil || probe.ID == "" {
				continue
			}
			records = append(records, Record{ID: probe.ID, Data: data})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		return records
	}

	return []Record{}
}
