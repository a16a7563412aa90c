package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"

	"github.com/robfig/cron/v3"
)

// Base coordinates for the simulated fleet, centered on Prospect Park.
const (
	simulationBaseLat = 40.67836844973936
	simulationBaseLon = -73.96550463805957

	// Roughly 2.5 km of positional jitter in degrees.
	simulationJitterDeg = 0.0225
)

var simulationStatuses = []partner.Status{
	partner.StatusOnline,
	partner.StatusOnline,
	partner.StatusInDelivery,
	partner.StatusOffline,
}

// FleetSimulationJob seeds and refreshes a synthetic delivery partner fleet.
// Runs every 30 seconds and pushes randomized status and position reports
// through the regular location-update path, so the store looks exactly like
// it would with real partners reporting in.
type FleetSimulationJob struct {
	handler      commands.UpdatePartnerLocationCommandHandler
	cron         *cron.Cron
	logger       *slog.Logger
	partnerCount int
	rng          *rand.Rand
}

// NewFleetSimulationJob creates a job that maintains partnerCount simulated
// partners. Partner dp_001 is pinned online at the base location so there is
// always at least one eligible candidate near the center of the fleet.
func NewFleetSimulationJob(
	handler commands.UpdatePartnerLocationCommandHandler,
	partnerCount int,
	logger *slog.Logger,
) *FleetSimulationJob {
	return &FleetSimulationJob{
		handler:      handler,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "fleet_simulation_job"),
		partnerCount: partnerCount,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start seeds the fleet immediately and then refreshes it every 30 seconds.
func (j *FleetSimulationJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		j.refreshFleet(context.Background())
	})

	if err != nil {
		return err
	}

	j.refreshFleet(context.Background())

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Fleet simulation job started",
		"partner_count", j.partnerCount)
	return nil
}

// Stop stops the fleet simulation job.
func (j *FleetSimulationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Fleet simulation job stopped")
}

func (j *FleetSimulationJob) refreshFleet(ctx context.Context) {
	for i := 1; i <= j.partnerCount; i++ {
		partnerID := fmt.Sprintf("dp_%03d", i)

		cmd, err := j.partnerReport(partnerID, i == 1)
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build simulated partner report",
				"partner_id", partnerID, "error", err)
			continue
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Failed to apply simulated partner report",
				"partner_id", partnerID, "error", err)
		}
	}
}

// partnerReport builds one randomized status/position report. The pinned
// partner always reports online from the base location without jitter.
func (j *FleetSimulationJob) partnerReport(
	partnerID string,
	pinned bool,
) (commands.UpdatePartnerLocationCommand, error) {
	status := partner.StatusOnline
	if !pinned {
		status = simulationStatuses[j.rng.Intn(len(simulationStatuses))]
	}

	if status == partner.StatusOffline {
		return commands.NewUpdatePartnerLocationCommand(partnerID, status, nil, nil)
	}

	lat := simulationBaseLat
	lon := simulationBaseLon
	if !pinned {
		lat += (j.rng.Float64()*2 - 1) * simulationJitterDeg
		lon += (j.rng.Float64()*2 - 1) * simulationJitterDeg
	}

	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return commands.UpdatePartnerLocationCommand{}, err
	}

	// Spread fairness timestamps over the last half hour so scoring has
	// something to differentiate on from the first cycle.
	var lastAssigned *time.Time
	if !pinned {
		at := time.Now().Add(-time.Duration(j.rng.Intn(30)) * time.Minute)
		lastAssigned = &at
	}

	return commands.NewUpdatePartnerLocationCommand(partnerID, status, &location, lastAssigned)
}
