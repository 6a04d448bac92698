package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Handlers map these to transport status codes with errors.Is;
// everything below the API layer only ever deals in these values.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("resource conflict")
	ErrAuth           = errors.New("authentication failed")
	ErrForbidden      = errors.New("access denied")
	ErrNotFound       = errors.New("resource not found")
	ErrInfrastructure = errors.New("infrastructure failure")
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("invalid request")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrAuth)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrAuth)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("%w: task not found", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrConflict)

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
	ErrConfigFileReadFailed  = errors.New("failed to read config file")
	ErrConfigParseFailed     = errors.New("failed to parse config file")
	ErrConfigInvalidFormat   = errors.New("invalid config value")
)

// FieldErrors maps a request field name to a human-readable message and
// carries every violation at once, not just the first.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fe))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(fe, ErrValidation) hold for any FieldErrors value.
func (fe FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
