// Package errors provides standardized error handling for mediabrowse.
// It defines the error kinds surfaced by the browser (filesystem, decode,
// process and rewrite failures) and helpers for creating, wrapping and
// classifying them.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrBusy is returned when a conversion is requested while another one runs.
var ErrBusy = NewProcessError("a conversion is already running", "", -1, nil)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	FileOperationFailed
	// Media error kinds
	DecodeFailed
	// External process error kinds
	ProcessFailed
	// Reference rewrite error kinds
	RewriteFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to filesystem operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// FromOS converts an error returned by the os package into a FileError,
// picking the kind from the underlying cause.
func FromOS(msg, path string, err error) error {
	if err == nil {
		return nil
	}
	kind := FileOperationFailed
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = FileNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = FileAccessDenied
	}
	return NewFileError(msg, path, kind, err)
}

// DecodeError represents image decoding or video probing failures
type DecodeError struct {
	ApplicationError
	path string
}

// NewDecodeError creates a new decode error
func NewDecodeError(msg string, path string, err error) *DecodeError {
	return &DecodeError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: DecodeFailed,
		},
		path: path,
	}
}

// Error returns the decode error message
func (e *DecodeError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the media file associated with the error
func (e *DecodeError) Path() string {
	return e.path
}

// ProcessError represents failures to spawn an external tool or a non-zero exit
type ProcessError struct {
	ApplicationError
	command  string
	exitCode int
}

// NewProcessError creates a new process error. exitCode is -1 when the process
// never ran to completion.
func NewProcessError(msg string, command string, exitCode int, err error) *ProcessError {
	return &ProcessError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: ProcessFailed,
		},
		command:  command,
		exitCode: exitCode,
	}
}

// Error returns the process error message
func (e *ProcessError) Error() string {
	msg := e.msg
	if e.command != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.command)
	}
	if e.exitCode >= 0 {
		msg = fmt.Sprintf("%s: exit code %d", msg, e.exitCode)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Command returns the executable associated with the error
func (e *ProcessError) Command() string {
	return e.command
}

// ExitCode returns the exit code of the process, or -1
func (e *ProcessError) ExitCode() int {
	return e.exitCode
}

// RewriteError represents failures to read or write the target file during a
// reference rewrite. It is distinct from a rewrite that found nothing.
type RewriteError struct {
	ApplicationError
	target string
}

// NewRewriteError creates a new rewrite error
func NewRewriteError(msg string, target string, err error) *RewriteError {
	return &RewriteError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: RewriteFailed,
		},
		target: target,
	}
}

// Error returns the rewrite error message
func (e *RewriteError) Error() string {
	if e.target != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.target, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.target)
	}
	return e.ApplicationError.Error()
}

// Target returns the target file associated with the error
func (e *RewriteError) Target() string {
	return e.target
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsFilesystemError checks if the error is any kind of filesystem error
func IsFilesystemError(err error) bool {
	var fileErr *FileError
	return errors.As(err, &fileErr)
}

// IsDecodeError checks if the error is a decode error
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// IsProcessError checks if the error is an external process error
func IsProcessError(err error) bool {
	var procErr *ProcessError
	return errors.As(err, &procErr)
}

// IsRewriteError checks if the error is a reference rewrite error
func IsRewriteError(err error) bool {
	var rewriteErr *RewriteError
	return errors.As(err, &rewriteErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
