package sessions

import (
	"context"
	"depot-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix namespaces session registries in Redis.
const SessionKeyPrefix = "route:session:"

// Persisted form of a stop.
type storedStop struct {
	Identifier string  `json:"identifier"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	Priority   int     `json:"priority"`
}

// RedisStore keeps each session registry as a JSON value with a TTL,
// so sessions survive restarts and are shared between server instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL (redis://...) and pings the server.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis session store: parse url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session store: connection failed: %w", err)
	}

	return NewRedisStoreFromClient(client, ttl), nil
}

func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()

	data, err := encodeStops(nil)
	if err != nil {
		return "", fmt.Errorf("redis session create: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(id), data, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis session create: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("redis session create: id collision for %s", id)
	}
	return id, nil
}

func (s *RedisStore) Stops(ctx context.Context, sessionID string) ([]domain.Stop, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("redis session get: %w", err)
	}
	return decodeStops(data)
}

// Update runs fn inside a WATCH transaction on the session key.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*domain.StopRegistry) error) ([]domain.Stop, error) {
	key := sessionKey(sessionID)
	var out []domain.Stop

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
			}
			return fmt.Errorf("redis session get: %w", err)
		}

		stops, err := decodeStops(data)
		if err != nil {
			return err
		}

		registry := domain.NewStopRegistry()
		registry.Restore(stops)
		if err := fn(registry); err != nil {
			return err
		}

		out = registry.List()
		payload, err := encodeStops(out)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	// A concurrent writer aborts the transaction; the update is not applied.
	if err := s.client.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrConcurrentUpdate)
		}
		return nil, err
	}
	return out, nil
}

func encodeStops(stops []domain.Stop) ([]byte, error) {
	stored := make([]storedStop, 0, len(stops))
	for _, st := range stops {
		stored = append(stored, storedStop{
			Identifier: st.Identifier,
			Latitude:   st.Latitude,
			Longitude:  st.Longitude,
			Priority:   int(st.Priority),
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal session stops: %w", err)
	}
	return data, nil
}

func decodeStops(data []byte) ([]domain.Stop, error) {
	var stored []storedStop
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal session stops: %w", err)
	}
	stops := make([]domain.Stop, 0, len(stored))
	for _, st := range stored {
		stops = append(stops, domain.Stop{
			Identifier: st.Identifier,
			Latitude:   st.Latitude,
			Longitude:  st.Longitude,
			Priority:   domain.Priority(st.Priority),
		})
	}
	return stops, nil
}
