// Package order provides the Order aggregate root of the lifecycle engine.
//
// An order owns its service instances, and every instance owns exactly one
// work item: a task.Task for SERVICE_TASK services or an asking.AskingTask for
// ASKING_SERVICE services. All mutations of those work items go through the
// order so that authorization, the deadline window and the order status hook
// are applied in one place.
//
// Key business rules:
//   - New orders start PENDING
//   - PENDING moves to IN_PROGRESS as soon as any work item leaves its initial
//     state, unless an admin overrode the status
//   - COMPLETED orders always carry completedAt
//   - Task deadlines must lie within [orderDate, deliveryDate)
//   - Tasks can only be assigned once the order has a folder link
//   - Revision orders are new orders and never mutate the delivered original
package order
