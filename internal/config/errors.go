package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// ErrCodeNotFound means the configuration file does not exist.
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid means the file could not be parsed or a field is out of range.
	ErrCodeInvalid = "config_invalid"
	// ErrCodeUnknownField means the file carries a key this version does not know.
	ErrCodeUnknownField = "config_unknown_field"
	// ErrCodeMissingPath means a required tool path is empty.
	ErrCodeMissingPath = "config_missing_path"
)

// Error is a configuration error with a stable code.
type Error struct {
	Code  string
	Field string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the code of a wrapped *Error, or "".
func Code(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func invalid(field string, err error) error {
	return &Error{Code: ErrCodeInvalid, Field: field, Err: err}
}

func missing(field string) error {
	return &Error{Code: ErrCodeMissingPath, Field: field, Err: fmt.Errorf("%s is required", field)}
}

func isAbs(p string) bool {
	return filepath.IsAbs(p)
}
