package services

import (
	"time"

	"orderdesk/internal/core/domain/model/order"
)

// Stats are recomputed for every order response.
type Stats struct {
	TotalTasks         int
	CompletedTasks     int
	MandatoryRemaining int
	IncompleteTotal    int
	OverdueTasks       int
	DaysOld            int
}

// ComputeStats counts tasks and asking tasks together. DaysOld is measured
// from the order date in whole days and is never negative.
func ComputeStats(o *order.Order, now time.Time) Stats {
	gate := EvaluateGate(o)
	s := Stats{
		MandatoryRemaining: gate.MandatoryRemaining,
		IncompleteTotal:    gate.IncompleteTotal,
	}

	for _, inst := range o.Instances() {
		s.TotalTasks++
		if inst.IsCompleted() {
			s.CompletedTasks++
		}
		if inst.IsOverdue(now) {
			s.OverdueTasks++
		}
	}

	if age := now.Sub(o.OrderDate()); age > 0 {
		s.DaysOld = int(age / (24 * time.Hour))
	}
	return s
}
