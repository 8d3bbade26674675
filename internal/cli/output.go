package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/selfcare/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input, wrong credentials, failed scenarios
	ExitCommandError = 2 // Command error (bad config, storage unavailable, invalid paths)
)

// Error codes reported by OutputFormatter.Error.
const (
	CodeValidation  = "E001" // model.ValidationError
	CodeNotFound    = "E002" // model.NotFoundError
	CodePersistence = "E003" // model.PersistenceError
	CodeInternal    = "E004" // anything else
	CodeCheckFailed = "E_CHECK_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the error was already written to the command
	// output, so main should not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to the output.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for warnings and diagnostics (defaults to Writer)
	Verbose   bool

	warnings []string // pending warnings for the next JSON response
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status   string    `json:"status"`             // "ok" or "error"
	Data     any       `json:"data,omitempty"`     // success payload
	Error    *CLIError `json:"error,omitempty"`    // error details
	Warnings []string  `json:"warnings,omitempty"` // persistence warnings
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// IsJSON reports whether output is JSON.
func (f *OutputFormatter) IsJSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:   "ok",
			Data:     data,
			Warnings: f.takeWarnings(),
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.IsJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			Warnings: f.takeWarnings(),
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Warn reports a non-fatal problem. In JSON mode it is attached to the next
// response; otherwise it is written to the diagnostic writer.
func (f *OutputFormatter) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f.IsJSON() {
		f.warnings = append(f.warnings, msg)
		return
	}
	fmt.Fprintln(f.GetErrWriter(), "warning: "+msg)
}

func (f *OutputFormatter) takeWarnings() []string {
	w := f.warnings
	f.warnings = nil
	return w
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Fail reports a domain error and converts it to an ExitError.
// Validation and not-found errors exit with ExitFailure; persistence and
// other errors with ExitCommandError.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := CodeInternal, ExitCommandError
	var details any

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		code, exit = CodeValidation, ExitFailure
		details = map[string]string{"reason": string(verr.Code), "field": verr.Field}
	case model.IsNotFound(err):
		code, exit = CodeNotFound, ExitFailure
	case model.IsPersistence(err):
		code = CodePersistence
	}

	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return outErr
	}
	return &ExitError{Code: exit, Message: err.Error(), Err: err, Reported: true}
}
