package auth

import "errors"

// Kind classifies session failures; the HTTP layer maps it to a status.
type Kind int

const (
	KindServerError Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	default:
		return "server_error"
	}
}

// Error is returned by every Manager operation. Message is safe to show to
// clients; Err is the internal cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func serverError(err error) *Error {
	return &Error{Kind: KindServerError, Message: "Server error", Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is a server error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServerError
}

// client-facing messages
const (
	msgSignupFieldsRequired = "Name, email, and password are required."
	msgLoginFieldsRequired  = "Email and password are required."
	msgUserExists           = "User already exists"
	msgBadCredentials       = "Invalid email or password"
	msgNoRefreshLogout      = "No refresh token found"
	msgNoRefreshToken       = "No refresh token provided"
	msgInvalidRefresh       = "Invalid or expired refresh token"
	msgRefreshRevoked       = "Invalid refresh token"
	msgNoAccessToken        = "Unauthorized - No access token provided"
	msgInvalidAccess        = "Unauthorized - Invalid access token"
	msgUserNotFound         = "User not found"
	msgPasswordTooLong      = "Password must be at most 72 bytes."
)
