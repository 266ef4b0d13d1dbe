package client

import (
	"fmt"
	"net/http"
)

// Kind classifies an API failure so callers can branch on what went wrong
// instead of sniffing message strings. The set is closed: every error the
// Client returns carries exactly one of these.
type Kind int

const (
	// KindNetwork means the request never produced an HTTP response
	// (connection refused, DNS failure, timeout).
	KindNetwork Kind = iota
	// KindAuth covers 401 and 403: the session is missing, expired,
	// revoked, or lacks the required role.
	KindAuth
	// KindValidation is a 400: the request was understood and rejected.
	KindValidation
	// KindNotFound is a 404.
	KindNotFound
	// KindConflict is a 409: duplicate enrollment, duplicate email,
	// course full.
	KindConflict
	// KindServer is everything else the server returned, 5xx included.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "server"
	}
}

// Error is the single error type returned by every Client operation.
// Message is the server's human-readable text verbatim when a response was
// received, so callers can display it directly.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for network errors and local checks
	Message string
	Field   string // offending field on validation errors, when known
	err     error  // underlying transport error, network kind only
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Sentinel errors for conditions detected locally, before any request is
// made. Compare with errors.Is.
var (
	// ErrLoggedOut: the operation needs a session and there isn't one.
	ErrLoggedOut = &Error{Kind: KindAuth, Message: "not logged in"}
	// ErrUnknownRole: the persisted user carries a role outside the known
	// three. Terminal until the caller clears the session and re-logs.
	ErrUnknownRole = &Error{Kind: KindAuth, Message: "unknown role in session"}
	// ErrAlreadyEnrolled: a pending or active enrollment for the course
	// already exists in the last fetched enrollments list; no request was
	// issued.
	ErrAlreadyEnrolled = &Error{Kind: KindConflict, Message: "you are already enrolled in this course"}
)

// kindForStatus maps an HTTP status to its error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}
