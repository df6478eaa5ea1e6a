// Package engine owns all read/write traffic for the domain entities: the
// optimistic in-memory state, write-through local persistence, direct remote
// writes with offline queueing, and the reconnection replay protocol.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/models"
	"bitbucket.org/mmdatafocus/gstbilling/remote"
	"bitbucket.org/mmdatafocus/gstbilling/store"
	"bitbucket.org/mmdatafocus/gstbilling/utils"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// ResyncDelay is how long after a reconnect the full-collection resync
	// fires. Zero means the default.
	ResyncDelay time.Duration
	// AutoResync enables that delayed full resync.
	AutoResync bool
	// FieldCryptKey encrypts sensitive customer fields at rest. When empty,
	// those fields are dropped rather than stored in plaintext.
	FieldCryptKey string
}

// Engine is the sync core. All state mutations go through it; the mutex
// serializes them the way the original single-threaded event loop did.
type Engine struct {
	mu      sync.Mutex
	logger  *logrus.Logger
	store   *store.Store
	live    remote.LiveStore // nil in local-only mode
	monitor *Monitor
	opts    Options

	state   State
	pending []models.Invoice

	syncing        bool
	resyncing      bool
	connecting     bool
	remoteReady    bool
	settingsSeeded bool

	subsTotal int
	subsAcked map[models.Collection]bool
}

func New(st *store.Store, live remote.LiveStore, monitor *Monitor, logger *logrus.Logger, opts Options) *Engine {
	if logger == nil {
		logger = config.GetLogger()
	}
	if monitor == nil {
		monitor = NewMonitor()
	}
	if opts.ResyncDelay <= 0 {
		opts.ResyncDelay = 2500 * time.Millisecond
	}
	return &Engine{
		logger:    logger,
		store:     st,
		live:      live,
		monitor:   monitor,
		opts:      opts,
		state:     newState(),
		pending:   []models.Invoice{},
		subsAcked: map[models.Collection]bool{},
	}
}

// Start loads the cached state, connects the remote when configured, and
// opens one subscription per collection. A remote that cannot connect is not
// fatal; the monitor flips offline and a later reconnect retries the whole
// remote setup, so the app keeps running on the local cache in between.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	e.state.loadSnapshot(e.store.LoadSnapshot())
	e.pending = e.store.LoadPendingQueue()
	e.mu.Unlock()

	e.monitor.OnReconnect(func() {
		if !e.RemoteReady() {
			e.connectRemote(context.Background())
		}
		go e.runReplay(context.Background())
		e.scheduleResync()
	})

	if e.live == nil {
		return nil
	}
	e.connectRemote(ctx)

	if e.monitor.Online() && e.PendingCount() > 0 {
		go e.runReplay(context.Background())
	}
	return nil
}

// connectRemote connects the live store and opens the per-collection
// subscriptions. On failure it marks the monitor offline so writes queue
// instead of hitting a dead remote; the next reconnect retries.
func (e *Engine) connectRemote(ctx context.Context) {
	e.mu.Lock()
	if e.live == nil || e.remoteReady || e.connecting {
		e.mu.Unlock()
		return
	}
	e.connecting = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.connecting = false
		e.mu.Unlock()
	}()

	if err := e.live.Connect(ctx); err != nil {
		config.LogError(e.logger, "engine", "connectRemote", "remote connect failed, running on local cache", nil, err)
		e.monitor.SetOnline(false)
		return
	}

	e.mu.Lock()
	e.remoteReady = true
	e.subsTotal = len(models.AllCollections)
	e.mu.Unlock()

	for _, collection := range models.AllCollections {
		c := collection
		if err := e.live.Subscribe(c, func(records []remote.Record) {
			e.handleRemoteSnapshot(c, records)
		}); err != nil {
			// Degrade to the local cache for this path; progress still
			// advances so the UI does not hang on it.
			config.LogError(e.logger, "engine", "connectRemote", "subscribe "+string(c), nil, err)
			e.mu.Lock()
			e.subsAcked[c] = true
			e.mu.Unlock()
		}
	}
}

// handleRemoteSnapshot is the subscription sink: seed-purge check, the
// settings seeding rule, then wholesale collection replace.
func (e *Engine) handleRemoteSnapshot(collection models.Collection, records []remote.Record) {
	e.mu.Lock()
	e.subsAcked[collection] = true

	if SeedContaminated(collection, records) {
		e.state.clearCollection(collection)
		e.persistLocked()
		live := e.live
		e.mu.Unlock()
		e.logger.WithFields(logrus.Fields{
			"module":     "engine",
			"collection": string(collection),
			"records":    len(records),
		}).Warn("sample data detected on remote, purging")
		if err := live.Clear(context.Background(), collection); err != nil {
			config.LogError(e.logger, "engine", "handleRemoteSnapshot", "purge "+string(collection), nil, err)
		}
		return
	}

	if len(records) == 0 {
		// An empty remote path means "nothing stored there yet", not a
		// deletion of everything: keep the local cache. For settings the
		// local copy seeds the remote, one time only.
		if collection == models.CollectionSettings && e.state.Settings != nil && !e.settingsSeeded {
			e.settingsSeeded = true
			settings := *e.state.Settings
			live := e.live
			e.mu.Unlock()
			if err := live.Put(context.Background(), models.CollectionSettings, "settings", settings); err != nil {
				config.LogError(e.logger, "engine", "handleRemoteSnapshot", "seed settings", nil, err)
			}
			return
		}
		e.mu.Unlock()
		return
	}

	e.state.ApplySnapshot(collection, records)
	e.persistLocked()
	e.mu.Unlock()
}

// persistLocked mirrors the in-memory state to the local durable store.
// Callers hold e.mu. Write-through: every mutating operation calls this
// before returning, so a crash loses at most the operation in flight.
func (e *Engine) persistLocked() {
	snap := e.state.snapshot()
	e.store.SaveSnapshot(&snap)
}

// --- reactive reads ---

func (e *Engine) Invoices() []models.Invoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Invoice{}, e.state.Invoices...)
}

func (e *Engine) Customers() []models.Customer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Customer{}, e.state.Customers...)
}

func (e *Engine) Products() []models.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Product{}, e.state.Products...)
}

func (e *Engine) Purchases() []models.Purchase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Purchase{}, e.state.Purchases...)
}

func (e *Engine) Settings() models.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.settings()
}

func (e *Engine) Meta() models.Meta {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Meta
}

func (e *Engine) ActivityLog() []models.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Activity{}, e.state.Activity...)
}

func (e *Engine) PendingInvoices() []models.Invoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Invoice{}, e.pending...)
}

func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Engine) Online() bool { return e.monitor.Online() }

func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.syncing
}

func (e *Engine) RemoteReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remoteReady
}

// Loading reports whether any subscription has yet to deliver its first
// snapshot. Progress returns acknowledged/total for a coarse indicator.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live != nil && len(e.subsAcked) < e.subsTotal
}

func (e *Engine) Progress() (acked, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subsAcked), e.subsTotal
}

// --- invoice operations ---

// SaveInvoice is the single upsert for invoices. Totals are always
// recomputed from the items; a new invoice advances the sequence counter and
// gets its number, an edit keeps both.
func (e *Engine) SaveInvoice(ctx context.Context, form models.NewInvoice, status models.InvoiceStatus) (models.Invoice, error) {
	if !status.Valid() {
		status = models.InvoiceStatusDraft
	}

	e.mu.Lock()
	settings := e.state.settings()
	items := append([]models.InvoiceItem{}, form.Items...)
	totals := utils.ComputeInvoiceTotals(items, form.Customer.State, settings.State)
	now := time.Now()

	var inv models.Invoice
	isNew := true
	prevStatus := models.InvoiceStatusDraft
	idx := -1
	if form.ID != "" {
		for i := range e.state.Invoices {
			if e.state.Invoices[i].ID == form.ID {
				isNew = false
				inv = e.state.Invoices[i]
				prevStatus = inv.Status
				idx = i
				break
			}
		}
	}
	if isNew {
		seq := e.state.Meta.InvoiceSequence + 1
		e.state.Meta.InvoiceSequence = seq
		id := form.ID
		if id == "" {
			id = utils.NewId()
		}
		inv = models.Invoice{
			ID:        id,
			InvoiceNo: utils.FormatInvoiceNo(settings.InvoicePrefix, form.Date, seq),
			CreatedAt: now,
		}
	}

	inv.Date = form.Date
	inv.DueDate = form.DueDate
	inv.CustomerId = form.CustomerId
	inv.Customer = form.Customer
	inv.Items = items
	inv.Totals = totals
	inv.Status = status
	inv.AmountPaid = form.AmountPaid
	inv.Notes = form.Notes
	inv.ReverseCharge = form.ReverseCharge
	if status == models.InvoiceStatusPaid && inv.AmountPaid.IsZero() {
		inv.AmountPaid = totals.GrandTotal
	}

	leavesDraft := status != models.InvoiceStatusDraft && (isNew || prevStatus == models.InvoiceStatusDraft)
	if settings.UpdateStockOnInvoice && leavesDraft {
		e.adjustStockLocked(items, true)
	}
	if isNew && inv.CustomerId != "" {
		for i := range e.state.Customers {
			if e.state.Customers[i].ID == inv.CustomerId {
				e.state.Customers[i].TotalPurchase = e.state.Customers[i].TotalPurchase.Add(totals.GrandTotal)
				e.state.Customers[i].UpdatedAt = now
				break
			}
		}
	}

	if idx >= 0 {
		e.state.Invoices[idx] = inv
	} else {
		e.state.Invoices = append([]models.Invoice{inv}, e.state.Invoices...)
	}
	if settings.EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Invoice %s saved", inv.InvoiceNo), now)
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	meta := e.state.Meta
	e.mu.Unlock()

	if live == nil || !online {
		e.enqueue(inv)
		return inv, nil
	}
	if err := live.Put(ctx, models.CollectionInvoices, inv.ID, inv); err != nil {
		config.LogError(e.logger, "engine", "SaveInvoice", "remote write failed, queueing", inv.ID, err)
		e.enqueue(inv)
		return inv, nil
	}
	if isNew {
		inv = e.markSynced(inv.ID)
		if err := live.Put(ctx, models.CollectionMeta, "meta", meta); err != nil {
			config.LogError(e.logger, "engine", "SaveInvoice", "meta write", nil, err)
		}
	}
	return inv, nil
}

// MarkInvoiceStatus changes only the lifecycle status (and, for paid, the
// paid amount). The invoice number and sequence are untouched.
func (e *Engine) MarkInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) (models.Invoice, error) {
	if !status.Valid() {
		return models.Invoice{}, fmt.Errorf("invalid invoice status %q", status)
	}

	e.mu.Lock()
	idx := -1
	for i := range e.state.Invoices {
		if e.state.Invoices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return models.Invoice{}, utils.ErrorRecordNotFound
	}
	settings := e.state.settings()
	prevStatus := e.state.Invoices[idx].Status
	e.state.Invoices[idx].Status = status
	if status == models.InvoiceStatusPaid {
		e.state.Invoices[idx].AmountPaid = e.state.Invoices[idx].Totals.GrandTotal
	}
	if settings.UpdateStockOnInvoice && prevStatus == models.InvoiceStatusDraft && status != models.InvoiceStatusDraft {
		e.adjustStockLocked(e.state.Invoices[idx].Items, true)
	}
	inv := e.state.Invoices[idx]
	if settings.EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Invoice %s marked %s", inv.InvoiceNo, status), time.Now())
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live == nil || !online {
		e.enqueue(inv)
		return inv, nil
	}
	if err := live.Put(ctx, models.CollectionInvoices, inv.ID, inv); err != nil {
		config.LogError(e.logger, "engine", "MarkInvoiceStatus", "remote write failed, queueing", inv.ID, err)
		e.enqueue(inv)
	}
	return inv, nil
}

func (e *Engine) DeleteInvoice(ctx context.Context, id string) error {
	e.mu.Lock()
	idx := -1
	for i := range e.state.Invoices {
		if e.state.Invoices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return utils.ErrorRecordNotFound
	}
	inv := e.state.Invoices[idx]
	e.state.Invoices = append(e.state.Invoices[:idx], e.state.Invoices[idx+1:]...)
	// A queued copy must not resurrect the invoice on replay.
	for i := range e.pending {
		if e.pending[i].ID == id {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			e.store.SavePendingQueue(e.pending)
			break
		}
	}
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Invoice %s deleted", inv.InvoiceNo), time.Now())
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Delete(ctx, models.CollectionInvoices, id); err != nil {
			// No delete queue; the post-reconnect full resync heals this.
			config.LogError(e.logger, "engine", "DeleteInvoice", "remote delete failed", id, err)
		}
	}
	return nil
}

// markSynced flips the synced attribute after a successful direct remote
// write of a newly created invoice.
func (e *Engine) markSynced(id string) models.Invoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Invoices {
		if e.state.Invoices[i].ID == id {
			e.state.Invoices[i].Synced = true
			e.persistLocked()
			return e.state.Invoices[i]
		}
	}
	return models.Invoice{}
}

// enqueue adds an invoice to the pending queue, replacing any prior entry
// for the same id so repeated offline edits never grow the queue.
func (e *Engine) enqueue(inv models.Invoice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	replaced := false
	for i := range e.pending {
		if e.pending[i].ID == inv.ID {
			e.pending[i] = inv
			replaced = true
			break
		}
	}
	if !replaced {
		e.pending = append(e.pending, inv)
	}
	e.store.SavePendingQueue(e.pending)
}

// adjustStockLocked applies invoice/purchase stock side effects. Callers
// hold e.mu.
func (e *Engine) adjustStockLocked(items []models.InvoiceItem, decrement bool) {
	for _, item := range items {
		if item.ProductId == "" {
			continue
		}
		for i := range e.state.Products {
			if e.state.Products[i].ID != item.ProductId {
				continue
			}
			if decrement {
				e.state.Products[i].Stock = e.state.Products[i].Stock.Sub(item.Quantity)
			} else {
				e.state.Products[i].Stock = e.state.Products[i].Stock.Add(item.Quantity)
			}
			e.state.Products[i].UpdatedAt = time.Now()
			break
		}
	}
}

// --- customer / product / purchase / settings operations ---
//
// Non-invoice entities have no item-level queue; a failed remote write is
// logged and healed by the next full resync.

func (e *Engine) UpsertCustomer(ctx context.Context, input models.NewCustomer) (models.Customer, error) {
	region := e.Settings().PhoneRegion
	if err := input.Validate(region); err != nil {
		return models.Customer{}, err
	}
	input.Aadhaar = e.encryptSensitive("aadhaar", input.Aadhaar)
	input.Dob = e.encryptSensitive("dob", input.Dob)

	e.mu.Lock()
	now := time.Now()
	var customer models.Customer
	idx := -1
	if input.ID != "" {
		for i := range e.state.Customers {
			if e.state.Customers[i].ID == input.ID {
				idx = i
				customer = e.state.Customers[i]
				break
			}
		}
	}
	if idx < 0 {
		id := input.ID
		if id == "" {
			id = utils.NewId()
		}
		customer = models.Customer{ID: id, CreatedAt: now}
	}
	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.State = input.State
	customer.Gstin = input.Gstin
	customer.Address = input.Address
	customer.Notes = input.Notes
	if input.Aadhaar != "" {
		customer.Aadhaar = input.Aadhaar
	}
	if input.Dob != "" {
		customer.Dob = input.Dob
	}
	customer.UpdatedAt = now
	if idx >= 0 {
		e.state.Customers[idx] = customer
	} else {
		e.state.Customers = append([]models.Customer{customer}, e.state.Customers...)
	}
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Customer %s saved", customer.Name), now)
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Put(ctx, models.CollectionCustomers, customer.ID, customer); err != nil {
			config.LogError(e.logger, "engine", "UpsertCustomer", "remote write failed", customer.ID, err)
		}
	}
	return customer, nil
}

func (e *Engine) DeleteCustomer(ctx context.Context, id string) error {
	e.mu.Lock()
	idx := -1
	for i := range e.state.Customers {
		if e.state.Customers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return utils.ErrorRecordNotFound
	}
	name := e.state.Customers[idx].Name
	e.state.Customers = append(e.state.Customers[:idx], e.state.Customers[idx+1:]...)
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Customer %s deleted", name), time.Now())
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Delete(ctx, models.CollectionCustomers, id); err != nil {
			config.LogError(e.logger, "engine", "DeleteCustomer", "remote delete failed", id, err)
		}
	}
	return nil
}

func (e *Engine) UpsertProduct(ctx context.Context, input models.NewProduct) (models.Product, error) {
	if err := input.Validate(); err != nil {
		return models.Product{}, err
	}

	e.mu.Lock()
	now := time.Now()
	var product models.Product
	idx := -1
	if input.ID != "" {
		for i := range e.state.Products {
			if e.state.Products[i].ID == input.ID {
				idx = i
				product = e.state.Products[i]
				break
			}
		}
	}
	if idx < 0 {
		id := input.ID
		if id == "" {
			id = utils.NewId()
		}
		product = models.Product{ID: id, CreatedAt: now}
	}
	product.Name = input.Name
	product.Sku = input.Sku
	product.Hsn = input.Hsn
	product.Price = input.Price
	product.CostPrice = input.CostPrice
	product.TaxPercent = input.TaxPercent
	product.Stock = input.Stock
	product.Unit = input.Unit
	product.UpdatedAt = now
	if idx >= 0 {
		e.state.Products[idx] = product
	} else {
		e.state.Products = append([]models.Product{product}, e.state.Products...)
	}
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Product %s saved", product.Name), now)
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Put(ctx, models.CollectionProducts, product.ID, product); err != nil {
			config.LogError(e.logger, "engine", "UpsertProduct", "remote write failed", product.ID, err)
		}
	}
	return product, nil
}

func (e *Engine) DeleteProduct(ctx context.Context, id string) error {
	e.mu.Lock()
	idx := -1
	for i := range e.state.Products {
		if e.state.Products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return utils.ErrorRecordNotFound
	}
	name := e.state.Products[idx].Name
	e.state.Products = append(e.state.Products[:idx], e.state.Products[idx+1:]...)
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Product %s deleted", name), time.Now())
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Delete(ctx, models.CollectionProducts, id); err != nil {
			config.LogError(e.logger, "engine", "DeleteProduct", "remote delete failed", id, err)
		}
	}
	return nil
}

// SavePurchase appends a supplier-bill ledger entry and increments stock for
// its items. Purchases are append-only; there is no edit operation.
func (e *Engine) SavePurchase(ctx context.Context, input models.NewPurchase) (models.Purchase, error) {
	if err := input.Validate(); err != nil {
		return models.Purchase{}, err
	}

	e.mu.Lock()
	now := time.Now()
	items := append([]models.PurchaseItem{}, input.Items...)
	total := decimalZero()
	invoiceItems := make([]models.InvoiceItem, 0, len(items))
	for i := range items {
		items[i].Total = items[i].Quantity.Mul(items[i].Rate)
		total = total.Add(items[i].Total)
		invoiceItems = append(invoiceItems, models.InvoiceItem{
			ProductId: items[i].ProductId,
			Quantity:  items[i].Quantity,
		})
	}
	purchase := models.Purchase{
		ID:        utils.NewId(),
		Supplier:  input.Supplier,
		BillNo:    input.BillNo,
		Date:      input.Date,
		Items:     items,
		Total:     total,
		CreatedAt: now,
	}
	e.state.Purchases = append([]models.Purchase{purchase}, e.state.Purchases...)
	e.adjustStockLocked(invoiceItems, false)
	if e.state.settings().EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, fmt.Sprintf("Purchase from %s recorded", purchase.Supplier), now)
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Put(ctx, models.CollectionPurchases, purchase.ID, purchase); err != nil {
			config.LogError(e.logger, "engine", "SavePurchase", "remote write failed", purchase.ID, err)
		}
	}
	return purchase, nil
}

// UpdateSettings overlays a partial update onto the current settings. When a
// remote is configured its settings copy stays authoritative: this write is
// pushed up immediately, and any later remote snapshot overrides local.
func (e *Engine) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	e.mu.Lock()
	settings := patch.Apply(e.state.settings())
	e.state.Settings = &settings
	if settings.EnableActivityLog {
		e.state.Activity = models.AppendActivity(e.state.Activity, "Settings updated", time.Now())
	}
	e.persistLocked()
	live, online := e.live, e.monitor.Online()
	e.mu.Unlock()

	if live != nil && online {
		if err := live.Put(ctx, models.CollectionSettings, "settings", settings); err != nil {
			config.LogError(e.logger, "engine", "UpdateSettings", "remote write failed", nil, err)
		}
	}
	return settings, nil
}

func (e *Engine) encryptSensitive(field, value string) string {
	if value == "" {
		return ""
	}
	enc, err := utils.EncryptField(e.opts.FieldCryptKey, value)
	if err != nil {
		// Never store these in plaintext; losing the value beats leaking it.
		config.LogError(e.logger, "engine", "encryptSensitive", field+" dropped", nil, err)
		return ""
	}
	return enc
}
