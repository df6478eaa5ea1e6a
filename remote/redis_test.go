package remote

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/models"
	"github.com/sirupsen/logrus"
)

// Before Connect succeeds every operation must fail with ErrNotConnected,
// never dereference a nil client. This is the startup-while-offline path:
// the engine keeps the adapter handle and queues against these errors.
func TestRedisLiveStore_NotConnected(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	r := NewRedisLiveStore("127.0.0.1:1", "", logger)
	ctx := context.Background()

	if err := r.Put(ctx, models.CollectionInvoices, "a", map[string]string{"id": "a"}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Put expected ErrNotConnected, got %v", err)
	}
	if err := r.Delete(ctx, models.CollectionInvoices, "a"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Delete expected ErrNotConnected, got %v", err)
	}
	if err := r.Replace(ctx, models.CollectionInvoices, map[string]any{"a": "x"}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Replace expected ErrNotConnected, got %v", err)
	}
	if err := r.Clear(ctx, models.CollectionInvoices); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Clear expected ErrNotConnected, got %v", err)
	}
	if _, err := r.Fetch(ctx, models.CollectionInvoices); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Fetch expected ErrNotConnected, got %v", err)
	}
	if err := r.Subscribe(models.CollectionInvoices, func([]Record) {}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Subscribe expected ErrNotConnected, got %v", err)
	}
	if _, err := r.Lock(ctx, "full-resync", time.Minute); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Lock expected ErrNotConnected, got %v", err)
	}

	if err := r.Disconnect(); err != nil {
		t.Fatalf("Disconnect before Connect: %v", err)
	}
}

func TestRedisLiveStore_FailedConnectReportsOffline(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	// Port 1 refuses immediately; no server is involved.
	r := NewRedisLiveStore("127.0.0.1:1", "", logger)

	var reported []bool
	r.OnConnState = func(online bool) { reported = append(reported, online) }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Connect(ctx); err == nil {
		t.Fatalf("expected connect error against a closed port")
	}
	if len(reported) == 0 || reported[len(reported)-1] {
		t.Fatalf("failed connect must report offline, got %v", reported)
	}

	// The failed connect leaves the adapter in the not-connected state.
	if err := r.Put(ctx, models.CollectionInvoices, "a", "x"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Put after failed connect expected ErrNotConnected, got %v", err)
	}
}
