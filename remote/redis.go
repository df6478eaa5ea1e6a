package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/gstbilling/config"
	"bitbucket.org/mmdatafocus/gstbilling/models"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "gstbilling:"

// ErrNotConnected is returned by every operation until Connect succeeds.
var ErrNotConnected = errors.New("redis live store is not connected")

// RedisLiveStore backs the LiveStore interface with redis: one hash per
// collection for point reads/writes, and one pub/sub channel per collection
// as the change feed. Subscribers re-read the hash on every notification so
// a dropped message costs freshness, never correctness.
type RedisLiveStore struct {
	addr     string
	password string
	logger   *logrus.Logger

	// OnConnState, when set before Connect, is told about transport
	// up/down transitions; the engine's connectivity monitor hangs off it.
	OnConnState func(online bool)

	client *redis.Client
	locker *redislock.Client

	mu   sync.Mutex
	subs []*redis.PubSub
}

func NewRedisLiveStore(addr, password string, logger *logrus.Logger) *RedisLiveStore {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &RedisLiveStore{addr: addr, password: password, logger: logger}
}

func (r *RedisLiveStore) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     r.addr,
		Password: r.password,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			if r.OnConnState != nil {
				r.OnConnState(true)
			}
			return nil
		},
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		if r.OnConnState != nil {
			r.OnConnState(false)
		}
		return err
	}
	r.client = client
	r.locker = redislock.New(client)
	return nil
}

func (r *RedisLiveStore) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	for _, ps := range r.subs {
		_ = ps.Close()
	}
	r.subs = nil
	err := r.client.Close()
	r.client = nil
	r.locker = nil
	return err
}

// conn hands out the client, or ErrNotConnected when Connect has not
// succeeded yet. Every operation goes through it so a remote that never came
// up degrades to ordinary write failures instead of a nil dereference.
func (r *RedisLiveStore) conn() (*redis.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil, ErrNotConnected
	}
	return r.client, nil
}

func collectionKey(collection models.Collection) string {
	return keyPrefix + string(collection)
}

func changeChannel(collection models.Collection) string {
	return keyPrefix + "changes:" + string(collection)
}

func (r *RedisLiveStore) Put(ctx context.Context, collection models.Collection, id string, record any) error {
	client, err := r.conn()
	if err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := client.HSet(ctx, collectionKey(collection), id, string(data)).Err(); err != nil {
		r.noteWireError(err)
		return err
	}
	client.Publish(ctx, changeChannel(collection), id)
	return nil
}

func (r *RedisLiveStore) Delete(ctx context.Context, collection models.Collection, id string) error {
	client, err := r.conn()
	if err != nil {
		return err
	}
	if err := client.HDel(ctx, collectionKey(collection), id).Err(); err != nil {
		r.noteWireError(err)
		return err
	}
	client.Publish(ctx, changeChannel(collection), id)
	return nil
}

func (r *RedisLiveStore) Replace(ctx context.Context, collection models.Collection, records map[string]any) error {
	client, err := r.conn()
	if err != nil {
		return err
	}
	fields := make(map[string]string, len(records))
	for id, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		fields[id] = string(data)
	}
	pipe := client.TxPipeline()
	pipe.Del(ctx, collectionKey(collection))
	if len(fields) > 0 {
		args := make([]any, 0, len(fields)*2)
		for id, data := range fields {
			args = append(args, id, data)
		}
		pipe.HSet(ctx, collectionKey(collection), args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.noteWireError(err)
		return err
	}
	client.Publish(ctx, changeChannel(collection), "*")
	return nil
}

func (r *RedisLiveStore) Clear(ctx context.Context, collection models.Collection) error {
	client, err := r.conn()
	if err != nil {
		return err
	}
	if err := client.Del(ctx, collectionKey(collection)).Err(); err != nil {
		r.noteWireError(err)
		return err
	}
	client.Publish(ctx, changeChannel(collection), "*")
	return nil
}

func (r *RedisLiveStore) Fetch(ctx context.Context, collection models.Collection) ([]Record, error) {
	client, err := r.conn()
	if err != nil {
		return nil, err
	}
	raw, err := client.HGetAll(ctx, collectionKey(collection)).Result()
	if err != nil {
		r.noteWireError(err)
		return nil, err
	}
	return NormalizeRecords(raw), nil
}

// Subscribe delivers the current snapshot, then re-fetches and redelivers on
// every change notification. The goroutine exits when the store disconnects.
func (r *RedisLiveStore) Subscribe(collection models.Collection, handler Handler) error {
	r.mu.Lock()
	client := r.client
	if client == nil {
		r.mu.Unlock()
		return ErrNotConnected
	}
	ps := client.Subscribe(context.Background(), changeChannel(collection))
	r.subs = append(r.subs, ps)
	r.mu.Unlock()

	go func() {
		ctx := context.Background()
		if records, err := r.Fetch(ctx, collection); err == nil {
			handler(records)
		} else {
			config.LogError(r.logger, "remote", "Subscribe", string(collection), nil, err)
		}
		for range ps.Channel() {
			records, err := r.Fetch(ctx, collection)
			if err != nil {
				config.LogError(r.logger, "remote", "Subscribe", string(collection), nil, err)
				continue
			}
			handler(records)
		}
	}()
	return nil
}

func (r *RedisLiveStore) Lock(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error) {
	r.mu.Lock()
	locker := r.locker
	r.mu.Unlock()
	if locker == nil {
		return nil, ErrNotConnected
	}
	lock, err := locker.Obtain(ctx, keyPrefix+"lock:"+name, ttl, nil)
	if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}

// noteWireError flips the connectivity signal down on transport-level
// failures. Application-level errors (bad payload) do not mean offline.
func (r *RedisLiveStore) noteWireError(err error) {
	if r.OnConnState == nil || err == nil {
		return
	}
	var netErr net.Error
	if errors.Is(err, redis.ErrClosed) || errors.As(err, &netErr) {
		r.OnConnState(false)
	}
}
