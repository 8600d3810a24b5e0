// Package errors provides the application error type shared by fex packages.
// An AppError carries a machine-readable code, an HTTP status hint and a
// retryable flag, so callers can translate client failures into their own
// service errors without inspecting transport details.
package errors
