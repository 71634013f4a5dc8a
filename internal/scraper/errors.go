package scraper

import (
	"errors"
	"fmt"
)

// Configuration errors. These fail before any network call.
var (
	ErrMissingCredentials     = errors.New("no credentials configured")
	ErrUnsupportedInstitution = errors.New("institution unsupported")
)

// Authentication errors.
var (
	ErrBadCredentials         = errors.New("invalid credentials")
	ErrPasswordChangeRequired = errors.New("password change required")
	ErrReauthRequired         = errors.New("re-authentication required")
)

// Transient network and API errors.
var (
	ErrNetwork           = errors.New("network error")
	ErrHTTPStatus        = errors.New("unexpected HTTP status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPI               = errors.New("institution API error")
)

// StatusError wraps ErrHTTPStatus with the status code received.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d from %s", ErrHTTPStatus, e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

// IsAuthError reports whether err is one of the authentication errors.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrPasswordChangeRequired) ||
		errors.Is(err, ErrReauthRequired)
}

// UserMessage renders a short message for err that is safe to show to users.
// Upstream response bodies never appear in it.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredentials):
		return "Sync failed: no credentials configured"
	case errors.Is(err, ErrUnsupportedInstitution):
		return "Sync failed: institution unsupported"
	case errors.Is(err, ErrPasswordChangeRequired):
		return "Sync failed: password change required at the institution"
	case errors.Is(err, ErrReauthRequired):
		return "Sync failed: re-authentication required"
	case errors.Is(err, ErrBadCredentials):
		return "Sync failed: invalid credentials"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrHTTPStatus), errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrAPI):
		return "Sync failed: the institution could not be reached"
	default:
		return "Sync failed: internal error"
	}
}
