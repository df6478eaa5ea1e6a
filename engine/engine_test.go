package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/models"
	"bitbucket.org/mmdatafocus/gstbilling/remote"
	"bitbucket.org/mmdatafocus/gstbilling/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeLiveStore is an in-memory remote with failure injection. Subscribe
// delivers the current snapshot immediately, like the real adapter; push
// simulates a later remote change event.
type fakeLiveStore struct {
	mu       sync.Mutex
	data     map[models.Collection]map[string]json.RawMessage
	handlers map[models.Collection]remote.Handler
	clears   []models.Collection
	replaces map[models.Collection]int
	puts       map[string]int
	failPut    func(collection models.Collection, id string) error
	connectErr error
	connects   int
	lockErr    error
}

func newFakeLiveStore() *fakeLiveStore {
	return &fakeLiveStore{
		data:     map[models.Collection]map[string]json.RawMessage{},
		handlers: map[models.Collection]remote.Handler{},
		replaces: map[models.Collection]int{},
		puts:     map[string]int{},
	}
}

func (f *fakeLiveStore) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	return f.connectErr
}

func (f *fakeLiveStore) Disconnect() error { return nil }

func (f *fakeLiveStore) setConnectErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = err
}

func (f *fakeLiveStore) Put(ctx context.Context, collection models.Collection, id string, record any) error {
	f.mu.Lock()
	failPut := f.failPut
	f.mu.Unlock()
	if failPut != nil {
		if err := failPut(collection, id); err != nil {
			return err
		}
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[collection] == nil {
		f.data[collection] = map[string]json.RawMessage{}
	}
	f.data[collection][id] = raw
	f.puts[string(collection)+"/"+id]++
	return nil
}

func (f *fakeLiveStore) Delete(ctx context.Context, collection models.Collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data[collection], id)
	return nil
}

func (f *fakeLiveStore) Replace(ctx context.Context, collection models.Collection, records map[string]any) error {
	next := map[string]json.RawMessage{}
	for id, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		next[id] = raw
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[collection] = next
	f.replaces[collection]++
	return nil
}

func (f *fakeLiveStore) Clear(ctx context.Context, collection models.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, collection)
	f.clears = append(f.clears, collection)
	return nil
}

func (f *fakeLiveStore) Fetch(ctx context.Context, collection models.Collection) ([]remote.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recordsLocked(collection), nil
}

func (f *fakeLiveStore) Subscribe(collection models.Collection, handler remote.Handler) error {
	f.mu.Lock()
	f.handlers[collection] = handler
	records := f.recordsLocked(collection)
	f.mu.Unlock()
	handler(records)
	return nil
}

func (f *fakeLiveStore) Lock(ctx context.Context, name string, ttl time.Duration) (remote.ReleaseFunc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return func() {}, nil
}

func (f *fakeLiveStore) recordsLocked(collection models.Collection) []remote.Record {
	raw := map[string]string{}
	for id, data := range f.data[collection] {
		raw[id] = string(data)
	}
	return remote.NormalizeRecords(raw)
}

// push simulates a remote change event reaching the subscription.
func (f *fakeLiveStore) push(collection models.Collection, records []remote.Record) {
	f.mu.Lock()
	handler := f.handlers[collection]
	f.mu.Unlock()
	if handler != nil {
		handler(records)
	}
}

func (f *fakeLiveStore) record(collection models.Collection, id string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[collection][id]
	return raw, ok
}

func (f *fakeLiveStore) count(collection models.Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data[collection])
}

func (f *fakeLiveStore) putCount(collection models.Collection, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts[string(collection)+"/"+id]
}

func (f *fakeLiveStore) setFailPut(fn func(collection models.Collection, id string) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut = fn
}

func failAll(collection models.Collection, id string) error {
	return errors.New("remote unavailable")
}

func newTestEngine(t *testing.T, live remote.LiveStore, opts Options) (*Engine, *store.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	st := store.New(store.NewMemoryKV(), logger)
	eng := New(st, live, NewMonitor(), logger, opts)
	if err := eng.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	return eng, st
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func invoiceForm(items ...models.InvoiceItem) models.NewInvoice {
	if len(items) == 0 {
		items = []models.InvoiceItem{{
			Description: "Widget",
			Quantity:    decimal.NewFromInt(2),
			Rate:        decimal.NewFromInt(1000),
			TaxPercent:  decimal.NewFromInt(18),
		}}
	}
	return models.NewInvoice{
		Date:     time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
		Customer: models.CustomerSnapshot{Name: "Ravi Stores", State: "Karnataka"},
		Items:    items,
	}
}

func TestSaveInvoice_SequenceAndNumber(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 1; i <= 3; i++ {
		inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if eng.Meta().InvoiceSequence != int64(i) {
			t.Fatalf("sequence expected %d, got %d", i, eng.Meta().InvoiceSequence)
		}
		want := fmt.Sprintf("INV-202608-%04d", i)
		if inv.InvoiceNo != want {
			t.Fatalf("invoice number expected %q, got %q", want, inv.InvoiceNo)
		}
		if seen[inv.InvoiceNo] {
			t.Fatalf("duplicate invoice number %q", inv.InvoiceNo)
		}
		seen[inv.InvoiceNo] = true
	}
}

func TestSaveInvoice_EditKeepsNumberAndSequence(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	form := invoiceForm()
	form.ID = inv.ID
	form.Notes = "edited"
	edited, err := eng.SaveInvoice(ctx, form, models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.InvoiceNo != inv.InvoiceNo {
		t.Fatalf("edit changed invoice number: %q -> %q", inv.InvoiceNo, edited.InvoiceNo)
	}
	if eng.Meta().InvoiceSequence != 1 {
		t.Fatalf("edit advanced the sequence: %d", eng.Meta().InvoiceSequence)
	}
	if edited.Notes != "edited" {
		t.Fatalf("edit lost fields: %+v", edited)
	}
	if len(eng.Invoices()) != 1 {
		t.Fatalf("edit duplicated the invoice")
	}
}

func TestSaveInvoice_PaidDefaultsAmountPaid(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})

	inv, err := eng.SaveInvoice(context.Background(), invoiceForm(), models.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !inv.AmountPaid.Equal(inv.Totals.GrandTotal) {
		t.Fatalf("paid invoice should default amount paid to %s, got %s", inv.Totals.GrandTotal, inv.AmountPaid)
	}
}

func TestSaveInvoice_DirectRemoteWrite(t *testing.T) {
	live := newFakeLiveStore()
	eng, _ := newTestEngine(t, live, Options{})

	inv, err := eng.SaveInvoice(context.Background(), invoiceForm(), models.InvoiceStatusSent)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !inv.Synced {
		t.Fatalf("direct remote write should mark the invoice synced")
	}
	if eng.PendingCount() != 0 {
		t.Fatalf("successful direct write must not queue")
	}
	if _, ok := live.record(models.CollectionInvoices, inv.ID); !ok {
		t.Fatalf("invoice missing on remote")
	}
	raw, ok := live.record(models.CollectionMeta, "meta")
	if !ok {
		t.Fatalf("meta not pushed after create")
	}
	var meta models.Meta
	if err := json.Unmarshal(raw, &meta); err != nil || meta.InvoiceSequence != 1 {
		t.Fatalf("remote meta wrong: %s err=%v", raw, err)
	}
}

func TestSaveInvoice_RemoteFailureQueues(t *testing.T) {
	live := newFakeLiveStore()
	eng, st := newTestEngine(t, live, Options{})
	live.setFailPut(failAll)
	ctx := context.Background()

	inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.Synced {
		t.Fatalf("failed remote write must leave the invoice unsynced")
	}
	if eng.PendingCount() != 1 {
		t.Fatalf("expected 1 queued invoice, got %d", eng.PendingCount())
	}
	if queue := st.LoadPendingQueue(); len(queue) != 1 || queue[0].ID != inv.ID {
		t.Fatalf("queue not persisted: %+v", queue)
	}

	// Re-saving the same invoice replaces its queue entry instead of
	// appending a second one.
	form := invoiceForm()
	form.ID = inv.ID
	form.Notes = "second attempt"
	if _, err := eng.SaveInvoice(ctx, form, models.InvoiceStatusDraft); err != nil {
		t.Fatalf("edit: %v", err)
	}
	queue := eng.PendingInvoices()
	if len(queue) != 1 {
		t.Fatalf("queue grew on repeated save: %d entries", len(queue))
	}
	if queue[0].Notes != "second attempt" {
		t.Fatalf("queue entry not replaced with latest copy: %+v", queue[0])
	}
}

func TestSaveInvoice_OfflineQueuesWithoutRemoteCall(t *testing.T) {
	live := newFakeLiveStore()
	eng, _ := newTestEngine(t, live, Options{})
	eng.monitor.SetOnline(false)

	inv, err := eng.SaveInvoice(context.Background(), invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.Synced {
		t.Fatalf("offline create must be unsynced")
	}
	if eng.PendingCount() != 1 {
		t.Fatalf("offline create must queue, got %d entries", eng.PendingCount())
	}
	if live.putCount(models.CollectionInvoices, inv.ID) != 0 {
		t.Fatalf("offline save must not hit the remote")
	}
}

func TestSaveInvoice_LocalOnlyStillQueues(t *testing.T) {
	eng, st := newTestEngine(t, nil, Options{})

	inv, err := eng.SaveInvoice(context.Background(), invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.Synced {
		t.Fatalf("no remote means nothing reached it, invoice must be unsynced")
	}
	if eng.PendingCount() != 1 {
		t.Fatalf("unconfigured remote must still queue, got %d entries", eng.PendingCount())
	}
	if queue := st.LoadPendingQueue(); len(queue) != 1 || queue[0].ID != inv.ID {
		t.Fatalf("queue not persisted: %+v", queue)
	}
}

func TestStartWithUnreachableRemote(t *testing.T) {
	live := newFakeLiveStore()
	live.setConnectErr(errors.New("connection refused"))
	eng, _ := newTestEngine(t, live, Options{})

	if eng.Online() {
		t.Fatalf("failed connect must flip the monitor offline")
	}
	if eng.RemoteReady() {
		t.Fatalf("remote must not be ready after a failed connect")
	}

	// The core scenario: the first sale of the day with the remote down.
	inv, err := eng.SaveInvoice(context.Background(), invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.Synced {
		t.Fatalf("invoice must be unsynced while the remote is unreachable")
	}
	if eng.PendingCount() != 1 {
		t.Fatalf("invoice not queued, got %d entries", eng.PendingCount())
	}
	if len(eng.Invoices()) != 1 {
		t.Fatalf("invoice not persisted locally")
	}

	// Remote comes back: reconnect retries the connect, opens subscriptions,
	// and drains the queue.
	live.setConnectErr(nil)
	eng.monitor.SetOnline(true)

	waitFor(t, func() bool { return eng.RemoteReady() }, "remote setup retry")
	waitFor(t, func() bool { return eng.PendingCount() == 0 }, "queue drain")
	waitFor(t, func() bool {
		_, ok := live.record(models.CollectionInvoices, inv.ID)
		return ok
	}, "invoice on remote")
}

func TestMarkInvoiceStatus(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	paid, err := eng.MarkInvoiceStatus(ctx, inv.ID, models.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != models.InvoiceStatusPaid {
		t.Fatalf("status not updated: %+v", paid)
	}
	if !paid.AmountPaid.Equal(paid.Totals.GrandTotal) {
		t.Fatalf("marking paid should settle the amount: %s vs %s", paid.AmountPaid, paid.Totals.GrandTotal)
	}
	if paid.InvoiceNo != inv.InvoiceNo {
		t.Fatalf("status change altered the invoice number")
	}

	if _, err := eng.MarkInvoiceStatus(ctx, inv.ID, models.InvoiceStatus("bogus")); err == nil {
		t.Fatalf("invalid status must be rejected")
	}
	if _, err := eng.MarkInvoiceStatus(ctx, "no-such-id", models.InvoiceStatusSent); err == nil {
		t.Fatalf("unknown id must be rejected")
	}
}

func TestDeleteInvoice_RemovesQueueEntry(t *testing.T) {
	live := newFakeLiveStore()
	eng, st := newTestEngine(t, live, Options{})
	live.setFailPut(failAll)
	ctx := context.Background()

	inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if eng.PendingCount() != 1 {
		t.Fatalf("expected queued invoice")
	}

	live.setFailPut(nil)
	if err := eng.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if eng.PendingCount() != 0 {
		t.Fatalf("deleted invoice left in the queue")
	}
	if len(eng.Invoices()) != 0 {
		t.Fatalf("invoice still in state")
	}
	if queue := st.LoadPendingQueue(); len(queue) != 0 {
		t.Fatalf("persisted queue still holds the deleted invoice: %+v", queue)
	}

	// A later replay must not resurrect it.
	if n := eng.SyncPendingInvoices(ctx); n != 0 {
		t.Fatalf("replay synced %d entries from an empty queue", n)
	}
	if live.count(models.CollectionInvoices) != 0 {
		t.Fatalf("deleted invoice reached the remote")
	}
}

func TestSaveInvoice_StockAndCustomerTotals(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	product, err := eng.UpsertProduct(ctx, models.NewProduct{
		Name:  "Widget",
		Stock: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	customer, err := eng.UpsertCustomer(ctx, models.NewCustomer{Name: "Ravi Stores", State: "Karnataka"})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}

	form := invoiceForm(models.InvoiceItem{
		ProductId:  product.ID,
		Quantity:   decimal.NewFromInt(3),
		Rate:       decimal.NewFromInt(100),
		TaxPercent: decimal.NewFromInt(18),
	})
	form.CustomerId = customer.ID

	inv, err := eng.SaveInvoice(ctx, form, models.InvoiceStatusSent)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	products := eng.Products()
	if !products[0].Stock.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("sent invoice should decrement stock to 7, got %s", products[0].Stock)
	}
	customers := eng.Customers()
	if !customers[0].TotalPurchase.Equal(inv.Totals.GrandTotal) {
		t.Fatalf("customer total purchase expected %s, got %s", inv.Totals.GrandTotal, customers[0].TotalPurchase)
	}

	// Marking an already-sent invoice paid must not decrement again.
	if _, err := eng.MarkInvoiceStatus(ctx, inv.ID, models.InvoiceStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got := eng.Products()[0].Stock; !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("stock decremented twice: %s", got)
	}
}

func TestSaveInvoice_DraftDoesNotTouchStock(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	product, err := eng.UpsertProduct(ctx, models.NewProduct{Name: "Widget", Stock: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	form := invoiceForm(models.InvoiceItem{
		ProductId: product.ID,
		Quantity:  decimal.NewFromInt(3),
		Rate:      decimal.NewFromInt(100),
	})
	if _, err := eng.SaveInvoice(ctx, form, models.InvoiceStatusDraft); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := eng.Products()[0].Stock; !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("draft must not touch stock, got %s", got)
	}
}

func TestSavePurchase_IncrementsStock(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})
	ctx := context.Background()

	product, err := eng.UpsertProduct(ctx, models.NewProduct{Name: "Widget", Stock: decimal.NewFromInt(5)})
	if err != nil {
		t.Fatalf("product: %v", err)
	}

	purchase, err := eng.SavePurchase(ctx, models.NewPurchase{
		Supplier: "Mega Wholesale",
		Items: []models.PurchaseItem{{
			ProductId: product.ID,
			Quantity:  decimal.NewFromInt(20),
			Rate:      decimal.NewFromInt(60),
		}},
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !purchase.Total.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("purchase total expected 1200, got %s", purchase.Total)
	}
	if got := eng.Products()[0].Stock; !got.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("purchase should increment stock to 25, got %s", got)
	}
	if len(eng.Purchases()) != 1 {
		t.Fatalf("purchase not recorded")
	}

	if _, err := eng.SavePurchase(ctx, models.NewPurchase{Supplier: "  "}); err == nil {
		t.Fatalf("blank supplier must be rejected")
	}
}

func TestUpsertCustomer_EncryptsSensitiveFields(t *testing.T) {
	eng, st := newTestEngine(t, nil, Options{FieldCryptKey: "test-key"})

	customer, err := eng.UpsertCustomer(context.Background(), models.NewCustomer{
		Name:    "Ravi Stores",
		Aadhaar: "123412341234",
		Dob:     "1990-04-17",
	})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if !strings.HasPrefix(customer.Aadhaar, "enc:") || !strings.HasPrefix(customer.Dob, "enc:") {
		t.Fatalf("sensitive fields not encrypted: %+v", customer)
	}

	// Plaintext must not reach the durable store either.
	snap := st.LoadSnapshot()
	if strings.Contains(snap.Customers[0].Aadhaar, "1234") {
		t.Fatalf("plaintext aadhaar persisted")
	}
}

func TestUpsertCustomer_DropsSensitiveFieldsWithoutKey(t *testing.T) {
	eng, _ := newTestEngine(t, nil, Options{})

	customer, err := eng.UpsertCustomer(context.Background(), models.NewCustomer{
		Name:    "Ravi Stores",
		Aadhaar: "123412341234",
	})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if customer.Aadhaar != "" {
		t.Fatalf("without a key the field must be dropped, got %q", customer.Aadhaar)
	}
}

func TestUpdateSettings(t *testing.T) {
	live := newFakeLiveStore()
	eng, _ := newTestEngine(t, live, Options{})

	state := "Karnataka"
	got, err := eng.UpdateSettings(context.Background(), models.SettingsPatch{State: &state})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if got.State != "Karnataka" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.InvoicePrefix != "INV" {
		t.Fatalf("unpatched defaults lost: %+v", got)
	}
	if _, ok := live.record(models.CollectionSettings, "settings"); !ok {
		t.Fatalf("settings not pushed to remote")
	}
	if eng.Settings().State != "Karnataka" {
		t.Fatalf("settings not retained in state")
	}
}

func TestWriteThroughSurvivesRestart(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	kv := store.NewMemoryKV()
	st := store.New(kv, logger)
	ctx := context.Background()

	live := newFakeLiveStore()
	live.setFailPut(failAll)
	eng := New(st, live, NewMonitor(), logger, Options{})
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	inv, err := eng.SaveInvoice(ctx, invoiceForm(), models.InvoiceStatusDraft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := eng.UpsertCustomer(ctx, models.NewCustomer{Name: "Ravi Stores"}); err != nil {
		t.Fatalf("customer: %v", err)
	}

	// Same store, fresh engine: everything including the queue must come
	// back from the local store alone.
	restarted := New(st, nil, NewMonitor(), logger, Options{})
	if err := restarted.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(restarted.Invoices()) != 1 || restarted.Invoices()[0].ID != inv.ID {
		t.Fatalf("invoices lost across restart: %+v", restarted.Invoices())
	}
	if len(restarted.Customers()) != 1 {
		t.Fatalf("customers lost across restart")
	}
	if restarted.Meta().InvoiceSequence != 1 {
		t.Fatalf("sequence lost across restart: %d", restarted.Meta().InvoiceSequence)
	}
	if restarted.PendingCount() != 1 {
		t.Fatalf("pending queue lost across restart: %d", restarted.PendingCount())
	}
}
