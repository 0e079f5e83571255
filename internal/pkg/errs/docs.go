// Package errs provides the standardized error taxonomy for the dispatch core.
//
// Error kinds map one-to-one onto the failure modes surfaced at operation
// boundaries: missing or malformed values, absent objects, authorization
// failures, conflicts (claim races, duplicate deals), insufficient wallet
// funds, invalid one-time codes, and operations attempted from a lifecycle
// status that does not permit them.
//
// Each error kind follows the same pattern:
//   - a sentinel error variable (e.g. ErrConflict) for errors.Is matching
//   - a struct type carrying the error details
//   - constructor functions, with and without an underlying cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Handlers at the transport boundary translate sentinels into status codes;
// nothing below the boundary inspects message strings.
package errs
