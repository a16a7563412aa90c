// Package batchrepo implements the pending-batch store and the idempotency
// markers on Redis.
//
// Key contract:
//
//	pending:zone:<zone>     hash: order id -> order JSON, TTL 120s
//	order:<id>:assigned     string "1", TTL 300s
package batchrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

const (
	// PendingTTL bounds how long an unmatched order stays discoverable by a
	// sibling. Stale zones self-clean; the attempt counter, not the TTL,
	// forces solo assignment.
	PendingTTL = 120 * time.Second

	// MarkerTTL bounds the duplicate-assignment risk window under
	// at-least-once delivery.
	MarkerTTL = 300 * time.Second
)

func zoneKey(zone string) string {
	return "pending:zone:" + zone
}

func markerKey(orderID string) string {
	return "order:" + orderID + ":assigned"
}

// RedisBatchRepository implements ports.BatchRepository against Redis.
type RedisBatchRepository struct {
	client *redis.Client
}

// NewRedisBatchRepository creates a batch repository on the given client.
func NewRedisBatchRepository(client *redis.Client) *RedisBatchRepository {
	return &RedisBatchRepository{client: client}
}

// Publish writes or overwrites the order in its zone's pending hash and
// refreshes the zone TTL. Re-publishing a requeued order is expected.
func (r *RedisBatchRepository) Publish(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(toDTO(o))
	if err != nil {
		return fmt.Errorf("marshal pending order: %w", err)
	}

	key := zoneKey(o.PickupZone())
	if err = r.client.HSet(ctx, key, o.ID(), payload).Err(); err != nil {
		return fmt.Errorf("publish pending order: %w", err)
	}
	if err = r.client.Expire(ctx, key, PendingTTL).Err(); err != nil {
		return fmt.Errorf("refresh zone ttl: %w", err)
	}

	return nil
}

// PendingInZone reads every order currently pending in the zone. Orders
// that fail to decode are skipped rather than poisoning the whole scan; the
// zone TTL clears them eventually.
func (r *RedisBatchRepository) PendingInZone(ctx context.Context, zone string) ([]*order.Order, error) {
	raw, err := r.client.HGetAll(ctx, zoneKey(zone)).Result()
	if err != nil {
		return nil, fmt.Errorf("read pending zone: %w", err)
	}

	pending := make([]*order.Order, 0, len(raw))
	for _, payload := range raw {
		var dto orderDTO
		if err := json.Unmarshal([]byte(payload), &dto); err != nil {
			continue
		}

		o, err := dto.toDomain()
		if err != nil {
			continue
		}

		pending = append(pending, o)
	}

	return pending, nil
}

// Remove deletes orders from the zone's pending hash.
func (r *RedisBatchRepository) Remove(ctx context.Context, zone string, orderIDs ...string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	if err := r.client.HDel(ctx, zoneKey(zone), orderIDs...).Err(); err != nil {
		return fmt.Errorf("remove pending orders: %w", err)
	}
	return nil
}

// MarkAssigned sets the order's idempotency marker with MarkerTTL.
func (r *RedisBatchRepository) MarkAssigned(ctx context.Context, orderID string) error {
	if err := r.client.Set(ctx, markerKey(orderID), "1", MarkerTTL).Err(); err != nil {
		return fmt.Errorf("set assignment marker: %w", err)
	}
	return nil
}

// IsAssigned reports whether the order's idempotency marker is present.
func (r *RedisBatchRepository) IsAssigned(ctx context.Context, orderID string) (bool, error) {
	_, err := r.client.Get(ctx, markerKey(orderID)).Result()
	switch {
	case err == redis.Nil:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read assignment marker: %w", err)
	}

	return true, nil
}
