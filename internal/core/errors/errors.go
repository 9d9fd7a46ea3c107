package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeValidationError     ErrorCode = "VALIDATION_ERROR"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
	CodeNotSupported        ErrorCode = "NOT_SUPPORTED"
	CodeUnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	CodeAnalysisFailed      ErrorCode = "ANALYSIS_ERROR"
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxLanguage  = "language"
	CtxStage     = "stage"
)

// Analysis stages reported under CtxStage.
const (
	StageRead    = "read"
	StageParse   = "parse"
	StageExtract = "extract"
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

func (e *DomainError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// Stage builds an ANALYSIS_ERROR for a failed pipeline stage.
func Stage(err error, stage, path, language string) *DomainError {
	de := &DomainError{
		Code:    CodeAnalysisFailed,
		Message: stage + " stage failed",
		Err:     err,
	}
	de.WithContext(CtxStage, stage)
	if path != "" {
		de.WithContext(CtxPath, path)
	}
	if language != "" {
		de.WithContext(CtxLanguage, language)
	}
	return de
}

// AddContext attaches a context value, wrapping foreign errors as internal.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return de
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// StageOf returns the pipeline stage recorded on err, or "".
func StageOf(err error) string {
	var de *DomainError
	if !errors.As(err, &de) {
		return ""
	}
	stage, _ := de.Context[CtxStage].(string)
	return stage
}
