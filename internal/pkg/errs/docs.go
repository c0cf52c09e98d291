// Package errs provides standardized error types for the order desk application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the engine and its adapters.
//
// The package includes one error type per failure class:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input validation
//   - InvalidTransitionError: an illegal state-machine move
//   - PreconditionError: a business rule that is not met yet
//   - AuthorizationError: the actor lacks the role or team permission
//   - ConflictError: the change collides with existing state
//   - ObjectNotFoundError: the addressed aggregate or entity does not exist
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for errors.Is / errors.As support
//
// The three validation types additionally unwrap to ErrValidation so callers can
// classify every input problem with a single errors.Is check.
package errs
