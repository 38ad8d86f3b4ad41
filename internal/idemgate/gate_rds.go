// Package idemgate manages the idempotency gate guarding redelivered messages.
package idemgate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/pkg/errorspkg"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Decision is the outcome of admitting a key.
type Decision int

const (
	// Admitted means the key was fresh and the caller holds the reservation.
	Admitted Decision = iota
	// AlreadyInProgress means a concurrent delivery of the same key holds the
	// reservation.
	AlreadyInProgress
	// AlreadyComplete means the key was settled before; the cached result is
	// returned without re-executing the clearing logic.
	AlreadyComplete
)

// Outcome carries the admit decision and, for AlreadyComplete, the cached
// settlement.
type Outcome struct {
	Decision Decision
	Cached   domain.Settlement
}

const (
	stateInProgress = "IN_PROGRESS"
	stateComplete   = "COMPLETE"
)

type record struct {
	State  string             `json:"state"`
	Result *domain.Settlement `json:"result,omitempty"`
}

// KeyFor derives the idempotency key from the business identity of the
// message. Transport metadata never feeds the key since it changes between
// redeliveries of the same logical transfer.
func KeyFor(outboxID string) string {
	return "clearance:idem:" + outboxID
}

// GateRDS facilitates idempotency gate logic over redis.
//
// Reservations expire after the configured TTL so a worker crashing mid-flight
// cannot block a key forever.
type GateRDS struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGateRDS returns idempotency GateRDS.
func NewGateRDS(client *redis.Client, ttl time.Duration) *GateRDS {
	return &GateRDS{
		client: client,
		ttl:    ttl,
	}
}

// Admit atomically reserves the key for the calling delivery.
//
// The conditional insert succeeds only if no record exists or the existing
// record has expired. A COMPLETE record short-circuits with the cached result;
// a live IN_PROGRESS record signals a concurrent duplicate.
func (g *GateRDS) Admit(ctx context.Context, key string) (Outcome, error) {
	l := zerolog.Ctx(ctx)

	payload, err := json.Marshal(record{State: stateInProgress})
	if err != nil {
		l.Error().Err(err).Send()
		return Outcome{}, errorspkg.ErrInternal
	}

	ok, err := g.client.SetNX(ctx, key, payload, g.ttl).Result()
	if err != nil {
		l.Error().Err(err).Send()
		return Outcome{}, errorspkg.ErrInternal
	}

	if ok {
		return Outcome{Decision: Admitted}, nil
	}

	raw, err := g.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// The holder released or expired between SETNX and GET; let the
		// redelivery take the fresh key.
		return Outcome{Decision: AlreadyInProgress}, nil
	}

	if err != nil {
		l.Error().Err(err).Send()
		return Outcome{}, errorspkg.ErrInternal
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		l.Error().Err(err).Send()
		return Outcome{}, errorspkg.ErrInternal
	}

	if rec.State == stateComplete && rec.Result != nil {
		return Outcome{Decision: AlreadyComplete, Cached: *rec.Result}, nil
	}

	return Outcome{Decision: AlreadyInProgress}, nil
}

// Commit caches the settlement under the key and restarts the TTL.
func (g *GateRDS) Commit(ctx context.Context, key string, settlement domain.Settlement) error {
	l := zerolog.Ctx(ctx)

	payload, err := json.Marshal(record{State: stateComplete, Result: &settlement})
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := g.client.Set(ctx, key, payload, g.ttl).Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Release removes the reservation so a legitimate retry is not blocked by a
// stale IN_PROGRESS marker.
func (g *GateRDS) Release(ctx context.Context, key string) error {
	l := zerolog.Ctx(ctx)

	if err := g.client.Del(ctx, key).Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
