package session

import "errors"

var (
	ErrIncompleteForm    = errors.New("all fields are required")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrNoAuthenticator   = errors.New("session manager has no authenticator bound")
	ErrInvalidAuthResult = errors.New("authentication response is missing tokens")
)

// AuthError is returned by Login/Register. Message is safe to show to the user.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Op + ": " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// problemDetailer is implemented by normalized transport errors that carry
// the server's problem payload.
type problemDetailer interface {
	ProblemDetail() string
}

func userMessage(err error, fallback string) string {
	var pd problemDetailer
	if errors.As(err, &pd) {
		if d := pd.ProblemDetail(); d != "" {
			return d
		}
	}
	return fallback
}
