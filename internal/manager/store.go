package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// StoreConfig names the key-value store endpoint and, when sentinel
// failover is in play, the master-group name to resolve before connecting.
type StoreConfig struct {
	Addr         string
	SentinelName string
	Set          string
}

// Store wraps a go-redis client behind a mutex: cull_known takes the lock
// for the duration of a single pipelined round-trip, so two goroutines
// calling CullKnown never interleave requests on one connection.
type Store struct {
	cfg    StoreConfig
	client *redis.Client
	mu     sync.Mutex
}

// DialStore connects to the store, resolving a sentinel master address
// first when cfg.SentinelName is set.
func DialStore(ctx context.Context, cfg StoreConfig) (*Store, *Error) {
	addr := cfg.Addr

	if cfg.SentinelName != "" {
		sentinel := redis.NewSentinelClient(&redis.Options{Addr: cfg.Addr})
		defer sentinel.Close()

		resolved, err := sentinel.GetMasterAddrByName(ctx, cfg.SentinelName).Result()
		if err != nil {
			return nil, &Error{Message: err.Error(), Cause: ErrCauseStoreUnreachable}
		}
		if len(resolved) != 2 {
			return nil, &Error{Message: "sentinel returned malformed master address", Cause: ErrCauseStoreUnreachable}
		}
		addr = fmt.Sprintf("%s:%s", resolved[0], resolved[1])
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &Error{Message: err.Error(), Cause: ErrCauseStoreUnreachable}
	}

	return &Store{cfg: cfg, client: client}, nil
}

// Add inserts key into the seen set. Idempotent: SADD on an existing
// member is a no-op.
func (s *Store) Add(ctx context.Context, key string) *Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SAdd(ctx, s.cfg.Set, key).Err(); err != nil {
		return &Error{Message: err.Error(), Cause: ErrCauseStoreUnreachable}
	}
	return nil
}

// CullKnown queries the seen set for every key in keys in a single
// pipelined round-trip and returns the subset not currently a member,
// preserving the input order.
func (s *Store) CullKnown(ctx context.Context, keys []string) ([]string, *Error) {
	if len(keys) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pipe := s.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.SIsMember(ctx, s.cfg.Set, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, &Error{Message: err.Error(), Cause: ErrCauseCullFailed}
	}

	unseen := make([]string, 0, len(keys))
	for i, cmd := range cmds {
		member, err := cmd.Result()
		if err != nil {
			return nil, &Error{Message: err.Error(), Cause: ErrCauseCullFailed}
		}
		if !member {
			unseen = append(unseen, keys[i])
		}
	}
	return unseen, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}
