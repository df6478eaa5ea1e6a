package store

import (
	"io"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/models"
	"github.com/sirupsen/logrus"
)

func newTestStore() *Store {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(NewMemoryKV(), logger)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore()

	if snap := s.LoadSnapshot(); snap != nil {
		t.Fatalf("fresh store should return nil snapshot, got %+v", snap)
	}

	saved := &models.DomainSnapshot{
		Invoices: []models.Invoice{{ID: "inv-1", InvoiceNo: "INV-202608-0001"}},
		Meta:     models.Meta{InvoiceSequence: 1},
		Settings: &models.Settings{CompanyName: "Ravi Stores", State: "Karnataka"},
	}
	s.SaveSnapshot(saved)

	got := s.LoadSnapshot()
	if got == nil {
		t.Fatalf("snapshot not persisted")
	}
	if len(got.Invoices) != 1 || got.Invoices[0].ID != "inv-1" {
		t.Fatalf("invoices lost: %+v", got.Invoices)
	}
	if got.Meta.InvoiceSequence != 1 {
		t.Fatalf("meta lost: %+v", got.Meta)
	}
	if got.Settings == nil || got.Settings.CompanyName != "Ravi Stores" {
		t.Fatalf("settings lost: %+v", got.Settings)
	}
	if got.Customers == nil || got.Products == nil || got.Purchases == nil || got.Activity == nil {
		t.Fatalf("loaded snapshot must be normalized")
	}
}

func TestLoadSnapshot_CorruptBlob(t *testing.T) {
	kv := NewMemoryKV()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(kv, logger)

	_ = kv.Set(KeySnapshot, "{not json")
	if snap := s.LoadSnapshot(); snap != nil {
		t.Fatalf("corrupt blob must load as nil, got %+v", snap)
	}

	// A later save replaces the corrupt blob.
	s.SaveSnapshot(&models.DomainSnapshot{Meta: models.Meta{InvoiceSequence: 5}})
	if snap := s.LoadSnapshot(); snap == nil || snap.Meta.InvoiceSequence != 5 {
		t.Fatalf("save after corruption failed: %+v", snap)
	}
}

func TestPendingQueueRoundTrip(t *testing.T) {
	s := newTestStore()

	if queue := s.LoadPendingQueue(); len(queue) != 0 {
		t.Fatalf("fresh queue should be empty, got %+v", queue)
	}

	s.SavePendingQueue([]models.Invoice{{ID: "a"}, {ID: "b"}})
	queue := s.LoadPendingQueue()
	if len(queue) != 2 || queue[0].ID != "a" || queue[1].ID != "b" {
		t.Fatalf("queue round trip failed: %+v", queue)
	}

	s.ClearPendingQueue()
	if queue := s.LoadPendingQueue(); len(queue) != 0 {
		t.Fatalf("queue not cleared: %+v", queue)
	}
}

func TestUsersAndSession(t *testing.T) {
	s := newTestStore()

	s.SaveUsers([]models.User{{ID: "u1", Username: "owner"}})
	users := s.LoadUsers()
	if len(users) != 1 || users[0].Username != "owner" {
		t.Fatalf("users round trip failed: %+v", users)
	}

	s.SaveSessionToken("tok-123")
	if s.SessionToken() != "tok-123" {
		t.Fatalf("session token not persisted")
	}
	s.ClearSessionToken()
	if s.SessionToken() != "" {
		t.Fatalf("session token not cleared")
	}
}

func TestClearAll(t *testing.T) {
	kv := NewMemoryKV()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(kv, logger)

	s.SaveSnapshot(&models.DomainSnapshot{Meta: models.Meta{InvoiceSequence: 2}})
	s.SavePendingQueue([]models.Invoice{{ID: "a"}})
	s.SaveUsers([]models.User{{ID: "u1"}})
	s.SaveSessionToken("tok")

	s.ClearAll()

	if keys := kv.Keys(); len(keys) != 0 {
		t.Fatalf("keys left behind after ClearAll: %v", keys)
	}
	if s.LoadSnapshot() != nil || len(s.LoadPendingQueue()) != 0 || len(s.LoadUsers()) != 0 || s.SessionToken() != "" {
		t.Fatalf("data survived ClearAll")
	}
}

func TestSaveSnapshot_NilIsNoOp(t *testing.T) {
	kv := NewMemoryKV()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(kv, logger)

	s.SaveSnapshot(nil)
	if _, ok := kv.Get(KeySnapshot); ok {
		t.Fatalf("nil snapshot must not be written")
	}
}

func TestSnapshotTimestampsSurvive(t *testing.T) {
	s := newTestStore()
	created := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	s.SaveSnapshot(&models.DomainSnapshot{
		Customers: []models.Customer{{ID: "c1", Name: "Ravi", CreatedAt: created}},
	})
	got := s.LoadSnapshot()
	if got == nil || len(got.Customers) != 1 || !got.Customers[0].CreatedAt.Equal(created) {
		t.Fatalf("timestamps mangled: %+v", got)
	}
}
