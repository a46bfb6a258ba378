package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	pkgredis "github.com/spicekart/storefront-backend/pkg/redis"
)

// Store persists checkout states in Redis keyed by buyer. States expire with
// the configured draft TTL; a buyer returning after expiry simply starts over.
type Store struct {
	redis pkgredis.StateStore
	ttl   time.Duration
}

// NewStore builds a state store over the shared Redis client.
func NewStore(redis pkgredis.StateStore, ttl time.Duration) (*Store, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis state store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("draft ttl must be positive")
	}
	return &Store{redis: redis, ttl: ttl}, nil
}

// Load returns the buyer's state, or a fresh one when none is stored.
func (s *Store) Load(ctx context.Context, buyerID uuid.UUID) (*State, error) {
	raw, err := s.redis.Get(ctx, s.redis.CheckoutStateKey(buyerID.String()))
	if err != nil {
		if pkgredis.IsNil(err) {
			return NewState(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout state")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt blob is unrecoverable; restart the flow.
		return NewState(), nil
	}
	if !state.Step.IsValid() {
		return NewState(), nil
	}
	return &state, nil
}

// Save writes the state back, refreshing the TTL.
func (s *Store) Save(ctx context.Context, buyerID uuid.UUID, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout state")
	}
	key := s.redis.CheckoutStateKey(buyerID.String())
	if err := s.redis.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save checkout state")
	}
	return nil
}

// Clear drops the buyer's state after completion.
func (s *Store) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if err := s.redis.Del(ctx, s.redis.CheckoutStateKey(buyerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear checkout state")
	}
	return nil
}
