package services

import "errors"

// ValidationError signals a missing or malformed input field. The API layer
// maps it to a 400 response.
type ValidationError struct {
	Message string
}

// Error satisfies error interface for ValidationError
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with the given message
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Not-found errors. The API layer maps them to 404 responses.
var (
	// ErrInvitationNotFound no connection matches the given code or url
	ErrInvitationNotFound = errors.New("invalid invite code")
	// ErrCredentialNotFound the referenced credential does not exist
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrQRPayloadNotFound the invitation qr payload expired or never existed
	ErrQRPayloadNotFound = errors.New("invitation qr payload not found")
)
