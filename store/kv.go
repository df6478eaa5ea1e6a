// Package store is the local durable side of the engine: a synchronous
// key-value layer holding the full business-data snapshot, the pending-write
// queue, and the auxiliary user/session blobs. Writes are immediately
// durable; there is no batching or flush delay.
package store

// Keys owned by this package. ClearAll removes exactly these.
const (
	KeySnapshot     = "gstbilling:data"
	KeyPendingQueue = "gstbilling:pending"
	KeyUsers        = "gstbilling:users"
	KeySession      = "gstbilling:session"
)

// KV is the host persistence primitive. Implementations must be synchronous:
// when Set returns, the value is durable (or the implementation is a
// deliberate in-memory one).
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Keys() []string
}
