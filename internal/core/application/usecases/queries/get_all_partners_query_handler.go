package queries

import (
	"context"
	"regexp"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store keys mirrored from the partner store contract. The driver feed
// reads them directly; changing them breaks external consumers.
const (
	partnerKeyPattern = "partner:*"
	geoKey            = "active:delivery-partners"
	assignmentsKey    = "partner:assignments"
)

// partnerRecordKey matches top-level partner records and filters out
// sub-keys such as "partner:<id>:orders".
var partnerRecordKey = regexp.MustCompile(`^partner:([^:]+)$`)

// GetAllPartnersQueryHandler serves the driver feed read surface:
// enumerates all partner records and derives status, recency, and position
// for each.
type GetAllPartnersQueryHandler struct {
	client *redis.Client
}

// NewGetAllPartnersQueryHandler creates a handler reading directly from the
// partner location store.
func NewGetAllPartnersQueryHandler(client *redis.Client) GetAllPartnersQueryHandler {
	return GetAllPartnersQueryHandler{client: client}
}

// Handle scans all partner records and returns one feed entry per partner.
// Positions are looked up only for partners whose status keeps them in the
// geo-index.
func (h GetAllPartnersQueryHandler) Handle(
	ctx context.Context,
	query GetAllPartnersQuery,
) ([]GetAllPartnersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	partners := make([]GetAllPartnersQueryResponse, 0)

	iter := h.client.Scan(ctx, 0, partnerKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		// The assignments zset lives under the same prefix.
		if iter.Val() == assignmentsKey {
			continue
		}

		match := partnerRecordKey.FindStringSubmatch(iter.Val())
		if match == nil {
			continue
		}
		partnerID := match[1]

		entry, err := h.loadPartner(ctx, partnerID)
		if err != nil {
			return nil, err
		}

		partners = append(partners, entry)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return partners, nil
}

func (h GetAllPartnersQueryHandler) loadPartner(
	ctx context.Context,
	partnerID string,
) (GetAllPartnersQueryResponse, error) {
	entry := GetAllPartnersQueryResponse{
		PartnerID: partnerID,
		Status:    "unknown",
	}

	fields, err := h.client.HMGet(ctx, "partner:"+partnerID, "status", "lastSeen").Result()
	if err != nil {
		return entry, err
	}

	if status, ok := fields[0].(string); ok && status != "" {
		entry.Status = status
	}
	if lastSeen, ok := fields[1].(string); ok {
		entry.LastSeen, _ = strconv.ParseInt(lastSeen, 10, 64)
	}

	lastAssigned, err := h.client.ZScore(ctx, assignmentsKey, partnerID).Result()
	switch {
	case err == nil:
		entry.LastAssigned = int64(lastAssigned)
	case err != redis.Nil:
		return entry, err
	}

	if entry.Status == "online" || entry.Status == "in_delivery" {
		positions, err := h.client.GeoPos(ctx, geoKey, partnerID).Result()
		if err != nil {
			return entry, err
		}
		if len(positions) > 0 && positions[0] != nil {
			entry.Lat = &positions[0].Latitude
			entry.Lng = &positions[0].Longitude
		}
	}

	return entry, nil
}
