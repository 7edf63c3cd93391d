// Package apperr holds the error taxonomy shared by the sheet and chat gateways.
package apperr

import "errors"

var (
	// ErrNotConfigured indicates a required setting (sheet id, channel, token) is empty
	ErrNotConfigured = errors.New("not configured")

	// ErrAuthFailed indicates credentials could not be parsed or a client could not be built
	ErrAuthFailed = errors.New("authentication failed")

	// ErrWriteFailed indicates the spreadsheet rejected or errored on a write
	ErrWriteFailed = errors.New("write failed")

	// ErrSendFailed indicates the chat service did not acknowledge a message
	ErrSendFailed = errors.New("send failed")

	// ErrValidation indicates malformed client input
	ErrValidation = errors.New("validation failed")
)

// IsNotConfigured returns true if the error is ErrNotConfigured
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsAuthFailed returns true if the error is ErrAuthFailed
func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}
