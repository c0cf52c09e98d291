// Package task implements the lifecycle of a service task, the unit of work
// spawned by every SERVICE_TASK instance on an order.
//
// The package includes:
//   - Task: the entity holding assignment, timing and completion state
//   - Status: the state machine that validates every transition
//   - Priority and Assignment: value objects supplied on (re)assignment
//
// Key business rules:
//   - Tasks start NOT_ASSIGNED and only an unassigned task can be assigned
//   - Reassignment restarts the work: status returns to ASSIGNED and startedAt is cleared
//   - Pause and resume share one toggle between IN_PROGRESS and PAUSED
//   - Completion requires IN_PROGRESS and, when the service demands it, completion notes
//   - OVERDUE is derived from the deadline and never stored
//
// Order-level rules (deadline window, folder link, team authorization) are
// enforced by the order aggregate that owns the task.
package task
