package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// External command errors
	ErrCommandRun ErrorCode = "COMMAND_RUN"

	// Provisioning errors
	ErrStepFailed ErrorCode = "STEP_FAILED"
	ErrStepCheck  ErrorCode = "STEP_CHECK"

	// Portage errors
	ErrPkgSync    ErrorCode = "PKG_SYNC"
	ErrPkgInstall ErrorCode = "PKG_INSTALL"
	ErrPkgQuery   ErrorCode = "PKG_QUERY"
	ErrProfileSet ErrorCode = "PROFILE_SET"
	ErrEnvUpdate  ErrorCode = "ENV_UPDATE"

	// Host mutation errors
	ErrGroupAdd      ErrorCode = "GROUP_ADD"
	ErrUserQuery     ErrorCode = "USER_QUERY"
	ErrServiceEnable ErrorCode = "SERVICE_ENABLE"
	ErrInitDetect    ErrorCode = "INIT_DETECT"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// Detail keys shared across packages. Step errors carry the step name, the
// exit status of the failing command, and the last attempted command line.
const (
	DetailStep     = "step"
	DetailExitCode = "exitCode"
	DetailCommand  = "command"
)

// DeskupError represents a structured error with code and details
type DeskupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DeskupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DeskupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DeskupError) Is(target error) bool {
	var targetErr *DeskupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DeskupError with the given code and message
func New(code ErrorCode, message string) *DeskupError {
	return &DeskupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DeskupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DeskupError {
	return &DeskupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DeskupError
func Wrap(err error, code ErrorCode, message string) *DeskupError {
	if err == nil {
		return nil
	}
	return &DeskupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DeskupError {
	if err == nil {
		return nil
	}
	return &DeskupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DeskupError) WithDetail(key string, value interface{}) *DeskupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var deskupErr *DeskupError
	if errors.As(err, &deskupErr) {
		return deskupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DeskupError
func GetErrorCode(err error) ErrorCode {
	var deskupErr *DeskupError
	if errors.As(err, &deskupErr) {
		return deskupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DeskupError
func GetErrorDetails(err error) map[string]interface{} {
	var deskupErr *DeskupError
	if errors.As(err, &deskupErr) {
		return deskupErr.Details
	}
	return nil
}

// ExitCode extracts the captured exit status from an error chain. It returns
// the failing external command's status when one was recorded, otherwise 1,
// so callers can propagate it as the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	// Walk the whole chain: step errors wrap command errors, and the
	// captured status usually sits on an inner error.
	for e := err; e != nil; e = errors.Unwrap(e) {
		if deskupErr, ok := e.(*DeskupError); ok {
			if code, ok := deskupErr.Details[DetailExitCode].(int); ok && code != 0 {
				return code
			}
		}
	}
	return 1
}

// Detail walks the error chain and returns the first value recorded for the
// given detail key. GetErrorDetails only sees the outermost error; the
// interesting details usually sit on an inner one.
func Detail(err error, key string) (interface{}, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if deskupErr, ok := e.(*DeskupError); ok {
			if value, ok := deskupErr.Details[key]; ok {
				return value, true
			}
		}
	}
	return nil, false
}

// DetailString is Detail for string-valued keys.
func DetailString(err error, key string) (string, bool) {
	value, ok := Detail(err, key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
