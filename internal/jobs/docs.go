// Package jobs provides scheduled background tasks for the dispatch core.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PoolRebroadcastJob - Runs every minute to re-emit DealPaid for deals
// that hold escrow but have no transporter yet, so transporters that missed
// the live event still see the pool refresh.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, publisher, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The rebroadcast job is best-effort: a failed sweep is logged and the next
// tick retries from scratch. It never mutates state, so there is nothing to
// roll back beyond the read transaction.
package jobs
