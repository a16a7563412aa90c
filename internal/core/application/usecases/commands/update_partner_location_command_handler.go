package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
)

// UpdatePartnerLocationCommandHandler applies partner status and position
// reports to the location store. This is the write path behind the external
// location-update surface; the dispatch core itself only reads what it
// maintains here, plus status, active-order membership, and the fairness
// timestamp written during assignment.
type UpdatePartnerLocationCommandHandler struct {
	partners ports.PartnerRepository
	logger   *slog.Logger
}

// NewUpdatePartnerLocationCommandHandler creates a handler for partner
// location updates.
func NewUpdatePartnerLocationCommandHandler(
	partners ports.PartnerRepository,
	logger *slog.Logger,
) UpdatePartnerLocationCommandHandler {
	return UpdatePartnerLocationCommandHandler{
		partners: partners,
		logger:   logger.With("component", "update_partner_location_handler"),
	}
}

// Handle applies one location report. Offline removes the partner entirely
// (record, geo entry, fairness timestamp); active statuses upsert position
// and refresh the record.
func (h UpdatePartnerLocationCommandHandler) Handle(
	ctx context.Context,
	command UpdatePartnerLocationCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if command.Status() == partner.StatusOffline {
		if err := h.partners.Remove(ctx, command.PartnerID()); err != nil {
			return err
		}

		h.logger.InfoContext(ctx, "Delivery partner went offline", "partner_id", command.PartnerID())
		return nil
	}

	if err := h.partners.UpsertLocation(
		ctx, command.PartnerID(), *command.Location(), command.Status(),
	); err != nil {
		return err
	}

	if at := command.LastAssigned(); at != nil {
		if err := h.partners.RecordAssignment(ctx, command.PartnerID(), *at); err != nil {
			return err
		}
	}

	return nil
}
