// Package jobs provides scheduled background tasks.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and
// managed through JobManager:
//
//	jobManager := jobs.NewJobManager(overdueMonitorJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// OverdueMonitorJob lists tasks whose deadline passed before completion and
// logs one warning per task. The default schedule is DefaultOverdueSchedule.
// A failed pass is logged and retried on the next tick.
package jobs
