// Package errs provides standardized error types for the dispatch application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is support
//
// Keeping error construction uniform lets callers classify failures with
// errors.Is instead of string matching, which matters at the queue-consumer
// boundary where transient store errors and validation errors take different
// redelivery paths.
package errs
