package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdatePartnerLocationCommandIsNotConstructed = errors.New(
	"UpdatePartnerLocationCommand must be created via NewUpdatePartnerLocationCommand constructor",
)

// UpdatePartnerLocationCommand applies one status/position report from a
// delivery partner. Going offline needs no coordinates; any active status
// requires them. lastAssigned is optional and lets external tooling restore
// the fairness timestamp.
type UpdatePartnerLocationCommand struct {
	partnerID    string
	status       partner.Status
	location     *kernel.GeoPoint
	lastAssigned *time.Time
	guard        guard.ConstructorGuard
}

// NewUpdatePartnerLocationCommand creates a validated location update.
// location must be non-nil iff status is online or in_delivery.
func NewUpdatePartnerLocationCommand(
	partnerID string,
	status partner.Status,
	location *kernel.GeoPoint,
	lastAssigned *time.Time,
) (UpdatePartnerLocationCommand, error) {
	if partnerID == "" {
		return UpdatePartnerLocationCommand{}, errs.NewValueIsRequiredError("partnerID")
	}
	if err := status.Validate(); err != nil {
		return UpdatePartnerLocationCommand{}, err
	}
	if status.IsActive() {
		if location == nil {
			return UpdatePartnerLocationCommand{}, errs.NewValueIsRequiredError("location")
		}
		if err := location.Validate(); err != nil {
			return UpdatePartnerLocationCommand{}, err
		}
	}

	return UpdatePartnerLocationCommand{
		partnerID:    partnerID,
		status:       status,
		location:     location,
		lastAssigned: lastAssigned,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// PartnerID returns the reporting partner's identifier.
func (c *UpdatePartnerLocationCommand) PartnerID() string {
	return c.partnerID
}

// Status returns the reported availability status.
func (c *UpdatePartnerLocationCommand) Status() partner.Status {
	return c.status
}

// Location returns the reported position, nil for offline reports.
func (c *UpdatePartnerLocationCommand) Location() *kernel.GeoPoint {
	return c.location
}

// LastAssigned returns the optional fairness timestamp override.
func (c *UpdatePartnerLocationCommand) LastAssigned() *time.Time {
	return c.lastAssigned
}

// Validate ensures the command was created through the constructor.
func (c *UpdatePartnerLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerLocationCommandIsNotConstructed)
}
