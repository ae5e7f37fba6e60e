// Package jobs provides scheduled background tasks for the order system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the store.
//
// # Available Jobs
//
// 1. StaleOrderCancellationJob - Runs every minute to cancel Pending orders
// that were never confirmed within the configured age
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(cancelOrderHandler, uowFactory, maxAge, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The sweep logs per-order failures and keeps going; a failed lookup skips
// the whole run and retries on the next tick.
package jobs
