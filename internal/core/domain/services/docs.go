// Package services provides domain services that work across the order
// aggregate, its work items and the service catalog.
//
// The package includes:
//   - EvaluateGate: counts the work that still blocks a confident delivery
//   - ComputeStats: the statistics returned with every mutated order
//   - ServiceReconciler: turns desired service quantities into instance changes
//   - OrderCoordinator: order creation, delivery with acknowledgment and revisions
package services
