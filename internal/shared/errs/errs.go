package errs

import (
	"errors"
	"net/http"
)

// Sentinel errors for every expected failure in the request pipeline.
// Handlers and middleware return these; the single policy table below
// decides the HTTP status, so no route maps statuses inline.
var (
	// Authentication failures (the caller is not who they claim, or
	// did not claim anything at all). All of these map to 401.
	ErrMissingToken        = errors.New("access token not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnknownIdentity     = errors.New("user not found")
	ErrMissingRefreshToken = errors.New("refresh token not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Authorization failure: authenticated, but not allowed.
	ErrForbidden = errors.New("unauthorized")

	// Credential / registration failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("user already exists")

	// Resource failures.
	ErrResourceNotFound   = errors.New("resource not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrGradeNotFound      = errors.New("grade not found")
	ErrStudentNotFound    = errors.New("student not found")

	// Business-rule failures.
	ErrDeadlinePassed = errors.New("deadline has passed")
	ErrAlreadyGraded  = errors.New("submission already graded")
	ErrInvalidUpload  = errors.New("only PDFs are allowed")
)

// statusByError is the one place where error kinds are mapped onto HTTP
// statuses. Token-class failures read as "not authenticated" (401),
// credential and registration failures as plain bad requests (400).
var statusByError = map[error]int{
	ErrMissingToken:        http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrUnknownIdentity:     http.StatusUnauthorized,
	ErrMissingRefreshToken: http.StatusUnauthorized,
	ErrInvalidRefreshToken: http.StatusUnauthorized,

	ErrForbidden: http.StatusForbidden,

	ErrInvalidCredentials: http.StatusBadRequest,
	ErrDuplicateEmail:     http.StatusBadRequest,

	ErrResourceNotFound:   http.StatusNotFound,
	ErrTaskNotFound:       http.StatusNotFound,
	ErrSubmissionNotFound: http.StatusNotFound,
	ErrGradeNotFound:      http.StatusNotFound,
	ErrStudentNotFound:    http.StatusNotFound,

	ErrDeadlinePassed: http.StatusBadRequest,
	ErrAlreadyGraded:  http.StatusBadRequest,
	ErrInvalidUpload:  http.StatusBadRequest,
}

// Status returns the HTTP status for err. Anything outside the expected
// taxonomy is an unexpected failure and surfaces as a 500.
func Status(err error) int {
	for sentinel, code := range statusByError {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// IsExpected reports whether err belongs to the known taxonomy. Expected
// failures carry their own message to the client; unexpected ones must not
// leak internal detail.
func IsExpected(err error) bool {
	return Status(err) != http.StatusInternalServerError
}
