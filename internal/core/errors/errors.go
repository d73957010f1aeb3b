package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// Fatal to a run: the query itself is invalid.
	CodeQuery  ErrorCode = "E_QUERY"
	CodeConfig ErrorCode = "E_CONFIG"

	// Per-file codes, surfaced as error records.
	CodeRead        ErrorCode = "E_READ"
	CodeParse       ErrorCode = "E_PARSE"
	CodeSyntax      ErrorCode = "E_SYNTAX"
	CodeTooLarge    ErrorCode = "E_TOO_LARGE"
	CodeUnsupported ErrorCode = "E_UNSUPPORTED"

	CodeInternal ErrorCode = "E_INTERNAL"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath     = "path"
	CtxLanguage = "language"
	CtxQuery    = "query"
	CtxOffset   = "offset"
)

func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

// Detail is the message without the code prefix or context map, as shown in
// error records.
func (e *DomainError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches a key/value to the first DomainError in err's chain,
// wrapping err as an internal error when it carries no code.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return err
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the first DomainError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message returns the record-friendly message for err.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Detail()
	}
	return err.Error()
}
