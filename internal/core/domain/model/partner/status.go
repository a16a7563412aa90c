package partner

import "dispatch/internal/pkg/errs"

// Status represents a delivery partner's availability state. The string
// values are a stable wire contract: the location-update collaborator writes
// them and the driver feed reads them back, so they must not change.
//
// State transitions:
//
//	offline ──> online ──> in_delivery ──> online
//	   ^           │
//	   └───────────┘
//
// A partner has an entry in the geo-index iff its status is StatusOnline or
// StatusInDelivery; going offline removes both the geo entry and the record.
type Status string

const (
	// StatusOnline means the partner is available for new assignments.
	StatusOnline Status = "online"

	// StatusInDelivery means the partner is currently carrying orders.
	StatusInDelivery Status = "in_delivery"

	// StatusOffline means the partner has no record and no geo entry.
	StatusOffline Status = "offline"
)

// Validate checks the status against the known set.
func (s Status) Validate() error {
	switch s {
	case StatusOnline, StatusInDelivery, StatusOffline:
		return nil
	default:
		return errs.NewValueIsInvalidError("status")
	}
}

// IsActive reports whether the partner should be present in the geo-index.
func (s Status) IsActive() bool {
	return s == StatusOnline || s == StatusInDelivery
}

func (s Status) String() string {
	return string(s)
}
