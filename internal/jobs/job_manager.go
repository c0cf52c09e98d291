package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overdueMonitorJob *OverdueMonitorJob
}

func NewJobManager(overdueMonitorJob *OverdueMonitorJob) *JobManager {
	return &JobManager{overdueMonitorJob: overdueMonitorJob}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueMonitorJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue monitor job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueMonitorJob.Stop()
}
