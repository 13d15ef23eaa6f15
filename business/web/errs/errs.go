// Package errs provides the error types handlers use to report failures
// that are safe to show to clients.
package errs

import "errors"

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted carries an error whose message can be returned to the client
// along with the HTTP status to use.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. Handlers use
// it for expected failures like malformed input or a missing block.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap gives errors.Is access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}
