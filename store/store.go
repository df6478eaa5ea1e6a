package store

import (
	"encoding/json"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/models"
	"github.com/sirupsen/logrus"
)

// Store wraps a KV with the typed blobs the engine persists. All operations
// are best-effort: storage failures are logged and swallowed so a full disk
// or a broken file never blocks the user from recording a sale. The cost is
// durability of that one write, not the in-memory session.
type Store struct {
	kv     KV
	logger *logrus.Logger
}

func New(kv KV, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Store{kv: kv, logger: logger}
}

func (s *Store) LoadSnapshot() *models.DomainSnapshot {
	raw, ok := s.kv.Get(KeySnapshot)
	if !ok {
		return nil
	}
	var snap models.DomainSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		config.LogError(s.logger, "store", "LoadSnapshot", "corrupt snapshot blob", nil, err)
		return nil
	}
	snap.Normalize()
	return &snap
}

func (s *Store) SaveSnapshot(snap *models.DomainSnapshot) {
	if snap == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		config.LogError(s.logger, "store", "SaveSnapshot", "marshal snapshot", nil, err)
		return
	}
	if err := s.kv.Set(KeySnapshot, string(raw)); err != nil {
		config.LogError(s.logger, "store", "SaveSnapshot", "persist snapshot", nil, err)
	}
}

func (s *Store) LoadPendingQueue() []models.Invoice {
	raw, ok := s.kv.Get(KeyPendingQueue)
	if !ok {
		return []models.Invoice{}
	}
	var queue []models.Invoice
	if err := json.Unmarshal([]byte(raw), &queue); err != nil {
		config.LogError(s.logger, "store", "LoadPendingQueue", "corrupt pending blob", nil, err)
		return []models.Invoice{}
	}
	return queue
}

func (s *Store) SavePendingQueue(queue []models.Invoice) {
	raw, err := json.Marshal(queue)
	if err != nil {
		config.LogError(s.logger, "store", "SavePendingQueue", "marshal queue", nil, err)
		return
	}
	if err := s.kv.Set(KeyPendingQueue, string(raw)); err != nil {
		config.LogError(s.logger, "store", "SavePendingQueue", "persist queue", nil, err)
	}
}

func (s *Store) ClearPendingQueue() {
	if err := s.kv.Remove(KeyPendingQueue); err != nil {
		config.LogError(s.logger, "store", "ClearPendingQueue", "remove queue", nil, err)
	}
}

func (s *Store) LoadUsers() []models.User {
	raw, ok := s.kv.Get(KeyUsers)
	if !ok {
		return []models.User{}
	}
	var users []models.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		config.LogError(s.logger, "store", "LoadUsers", "corrupt users blob", nil, err)
		return []models.User{}
	}
	return users
}

func (s *Store) SaveUsers(users []models.User) {
	raw, err := json.Marshal(users)
	if err != nil {
		config.LogError(s.logger, "store", "SaveUsers", "marshal users", nil, err)
		return
	}
	if err := s.kv.Set(KeyUsers, string(raw)); err != nil {
		config.LogError(s.logger, "store", "SaveUsers", "persist users", nil, err)
	}
}

func (s *Store) SessionToken() string {
	raw, _ := s.kv.Get(KeySession)
	return raw
}

func (s *Store) SaveSessionToken(token string) {
	if err := s.kv.Set(KeySession, token); err != nil {
		config.LogError(s.logger, "store", "SaveSessionToken", "persist session", nil, err)
	}
}

func (s *Store) ClearSessionToken() {
	if err := s.kv.Remove(KeySession); err != nil {
		config.LogError(s.logger, "store", "ClearSessionToken", "remove session", nil, err)
	}
}

// ClearAll wipes every key this package owns. Only for an explicit
// user-initiated data reset; nothing calls this automatically.
func (s *Store) ClearAll() {
	for _, key := range []string{KeySnapshot, KeyPendingQueue, KeyUsers, KeySession} {
		if err := s.kv.Remove(key); err != nil {
			config.LogError(s.logger, "store", "ClearAll", key, nil, err)
		}
	}
}
