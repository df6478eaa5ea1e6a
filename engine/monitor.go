package engine

import "sync"

// Monitor tracks the host connectivity signal. It is fed by the remote
// adapter's connection events (and the API for manual override) and defaults
// to online: a monitor that cannot determine status must not cause writes to
// queue needlessly.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	onReconnect []func()
}

func NewMonitor() *Monitor {
	return &Monitor{online: true}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a transition. An offline-to-online flip fires the
// reconnect callbacks; these are the sole trigger for automatic queue replay
// and the delayed full resync.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	var fire []func()
	if online && !wasOnline {
		fire = append(fire, m.onReconnect...)
	}
	m.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// OnReconnect registers a callback for offline-to-online transitions.
// Callbacks run on the caller of SetOnline.
func (m *Monitor) OnReconnect(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnect = append(m.onReconnect, fn)
}
