// Package kernel provides the shared domain primitives of the order desk.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate and entity
//   - Clock: the time source injected into lifecycle operations
//
// Both are immutable and safe for concurrent use.
package kernel
