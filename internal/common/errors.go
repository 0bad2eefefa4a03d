package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level error kinds. Every failure reported to a caller unwraps
	// to exactly one of these.
	ErrorBadRequest   = errors.New("bad request")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorInternal     = errors.New("internal error")
)

// Error is a caller-facing failure. Message is safe to return to clients,
// Kind is one of the error kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError returns an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// Token and login errors.
	ErrTokenMissing        = NewError(ErrorUnauthorized, "token missing")
	ErrInvalidToken        = NewError(ErrorUnauthorized, "invalid token")
	ErrInvalidCredentials  = NewError(ErrorUnauthorized, "invalid credentials")
	ErrCredentialsRequired = NewError(ErrorBadRequest, "username and password required")

	// Role errors.
	ErrAdminRequired = NewError(ErrorForbidden, "forbidden")
	ErrInvalidRole   = NewError(ErrorBadRequest, "invalid role")

	// User management errors.
	ErrUsernameExists = NewError(ErrorAlreadyExists, "username exists")

	// Color check input errors.
	ErrPantoneRequired = NewError(ErrorBadRequest, "pantone required")
	ErrPantoneTooLong  = NewError(ErrorBadRequest, "pantone too long")
	ErrInvalidHex      = NewError(ErrorBadRequest, "invalid hex color")
	ErrInvalidPoint    = NewError(ErrorBadRequest, "points must be non-empty and must not contain ','")
	ErrPointsTooLong   = NewError(ErrorBadRequest, "points too long")
)

// Message returns the caller-facing message carried by err, or fallback when
// err carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
