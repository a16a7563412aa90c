// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. FleetSimulationJob - Seeds and refreshes a synthetic delivery partner
// fleet every 30 seconds so the engine can be exercised without real
// partners reporting in.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(updateLocationHandler, partnerCount, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The simulation job logs and skips individual partner reports that fail.
// A failed report for one partner never aborts the rest of the cycle.
package jobs
