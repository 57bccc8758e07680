package mapgen

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	CodeInvalidCategory      Code = "INVALID_CATEGORY"
	CodeUnresolvedRoomType   Code = "UNRESOLVED_ROOM_TYPE"
)

// Error is a generation or validation failure.
// Column is -1 when the error is not tied to a column.
type Error struct {
	Code    Code
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Column >= 0 && e.Message != "" {
		return fmt.Sprintf("%s: column %d: %s", e.Code, e.Column, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Is matches sentinel errors by code. An invalid category is also an invalid configuration.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == CodeInvalidConfiguration && e.Code == CodeInvalidCategory
}

// Sentinels for errors.Is.
var (
	ErrInvalidConfiguration = &Error{Code: CodeInvalidConfiguration, Column: -1}
	ErrInvalidCategory      = &Error{Code: CodeInvalidCategory, Column: -1}
	ErrUnresolvedRoomType   = &Error{Code: CodeUnresolvedRoomType, Column: -1}
)

func configError(column int, format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidConfiguration, Column: column, Message: fmt.Sprintf(format, args...)}
}
