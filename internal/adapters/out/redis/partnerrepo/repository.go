// Package partnerrepo implements the partner location store on Redis.
//
// Key contract, shared with the external location-update and driver-feed
// collaborators and therefore stable:
//
//	partner:<id>            hash: status, lastSeen (unix ms)
//	partner:<id>:orders     hash: order id -> "assigned"
//	partner:assignments     zset: member partner id, score lastAssigned (unix ms)
//	active:delivery-partners geo: partners with status online or in_delivery
package partnerrepo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const (
	geoKey         = "active:delivery-partners"
	assignmentsKey = "partner:assignments"
)

func recordKey(partnerID string) string {
	return "partner:" + partnerID
}

func ordersKey(partnerID string) string {
	return recordKey(partnerID) + ":orders"
}

// RedisPartnerRepository implements ports.PartnerRepository against Redis.
// All operations are single-key and atomic on the server; there is no
// cross-key transaction, so callers must tolerate replays.
type RedisPartnerRepository struct {
	client *redis.Client
}

// NewRedisPartnerRepository creates a partner repository on the given client.
func NewRedisPartnerRepository(client *redis.Client) *RedisPartnerRepository {
	return &RedisPartnerRepository{client: client}
}

// SearchNearby queries the geo-index for partners within radiusKm of
// origin, ascending by distance.
func (r *RedisPartnerRepository) SearchNearby(
	ctx context.Context,
	origin kernel.GeoPoint,
	radiusKm float64,
) ([]ports.NearbyPartner, error) {
	locations, err := r.client.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  origin.Lon(),
			Latitude:   origin.Lat(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}

	nearby := make([]ports.NearbyPartner, len(locations))
	for i, loc := range locations {
		nearby[i] = ports.NearbyPartner{
			ID:         loc.Name,
			DistanceKm: loc.Dist,
		}
	}

	return nearby, nil
}

// GetCandidate assembles the scoring read model for one partner.
// A partner without a record yields errs.ErrObjectNotFound: its geo entry
// outlived the record, which callers treat as "not a candidate".
func (r *RedisPartnerRepository) GetCandidate(
	ctx context.Context,
	id string,
	distanceKm float64,
) (*partner.Candidate, error) {
	fields, err := r.client.HMGet(ctx, recordKey(id), "status", "lastSeen").Result()
	if err != nil {
		return nil, fmt.Errorf("read partner record: %w", err)
	}

	status, ok := fields[0].(string)
	if !ok || status == "" {
		return nil, errs.NewObjectNotFoundError("partnerId", id)
	}

	// A record without lastSeen counts as seen just now, matching how the
	// location updater initializes new records.
	lastSeen := time.Now()
	if raw, ok := fields[1].(string); ok {
		if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			lastSeen = time.UnixMilli(ms)
		}
	}

	activeOrders, err := r.client.HLen(ctx, ordersKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("count active orders: %w", err)
	}

	var lastAssigned time.Time
	score, err := r.client.ZScore(ctx, assignmentsKey, id).Result()
	switch {
	case err == nil:
		lastAssigned = time.UnixMilli(int64(score))
	case err != redis.Nil:
		return nil, fmt.Errorf("read last assignment: %w", err)
	}

	return partner.NewCandidate(id, distanceKm, partner.Status(status),
		int(activeOrders), lastSeen, lastAssigned)
}

// RegisterOrder adds the order to the partner's active-order set.
func (r *RedisPartnerRepository) RegisterOrder(ctx context.Context, partnerID string, orderID string) error {
	if err := r.client.HSet(ctx, ordersKey(partnerID), orderID, "assigned").Err(); err != nil {
		return fmt.Errorf("register order: %w", err)
	}
	return nil
}

// SetStatus transitions the partner's availability status without touching
// its geo entry.
func (r *RedisPartnerRepository) SetStatus(ctx context.Context, partnerID string, status partner.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := r.client.HSet(ctx, recordKey(partnerID), "status", status.String()).Err(); err != nil {
		return fmt.Errorf("set partner status: %w", err)
	}
	return nil
}

// RecordAssignment stores the fairness timestamp for the partner.
func (r *RedisPartnerRepository) RecordAssignment(ctx context.Context, partnerID string, at time.Time) error {
	err := r.client.ZAdd(ctx, assignmentsKey, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: partnerID,
	}).Err()
	if err != nil {
		return fmt.Errorf("record assignment: %w", err)
	}
	return nil
}

// UpsertLocation writes the partner's position into the geo-index and
// refreshes status and lastSeen on its record.
func (r *RedisPartnerRepository) UpsertLocation(
	ctx context.Context,
	partnerID string,
	location kernel.GeoPoint,
	status partner.Status,
) error {
	if err := status.Validate(); err != nil {
		return err
	}

	err := r.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      partnerID,
		Longitude: location.Lon(),
		Latitude:  location.Lat(),
	}).Err()
	if err != nil {
		return fmt.Errorf("geo add: %w", err)
	}

	err = r.client.HSet(ctx, recordKey(partnerID),
		"status", status.String(),
		"lastSeen", strconv.FormatInt(time.Now().UnixMilli(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("update partner record: %w", err)
	}

	return nil
}

// Remove deletes the partner record, geo entry, fairness timestamp, and
// active-order set. Safe to call for an unknown partner.
func (r *RedisPartnerRepository) Remove(ctx context.Context, partnerID string) error {
	if err := r.client.ZRem(ctx, geoKey, partnerID).Err(); err != nil {
		return fmt.Errorf("remove geo entry: %w", err)
	}
	if err := r.client.ZRem(ctx, assignmentsKey, partnerID).Err(); err != nil {
		return fmt.Errorf("remove assignment record: %w", err)
	}
	if err := r.client.Del(ctx, recordKey(partnerID), ordersKey(partnerID)).Err(); err != nil {
		return fmt.Errorf("remove partner record: %w", err)
	}
	return nil
}
