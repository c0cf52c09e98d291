package services

import "orderdesk/internal/core/domain/model/order"

// Gate is the delivery warning shown before an order is delivered.
// It is computed on demand and never stored.
type Gate struct {
	// MandatoryRemaining counts mandatory work items without completedAt.
	MandatoryRemaining int
	// IncompleteTotal counts every work item without completedAt.
	IncompleteTotal int
	// CanDeliver is always true: delivery is never hard-blocked.
	CanDeliver bool
}

// NeedsAcknowledgment reports whether delivery must be confirmed explicitly.
func (g Gate) NeedsAcknowledgment() bool {
	return g.MandatoryRemaining > 0 || g.IncompleteTotal > 0
}

// EvaluateGate counts incomplete work over all tasks and asking tasks of o.
func EvaluateGate(o *order.Order) Gate {
	g := Gate{CanDeliver: true}
	for _, inst := range o.Instances() {
		if inst.IsCompleted() {
			continue
		}
		g.IncompleteTotal++
		if inst.IsMandatory() {
			g.MandatoryRemaining++
		}
	}
	return g
}
