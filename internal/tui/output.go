package tui

import (
	"encoding/json"
	"fmt"
	"io"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidateFormat rejects anything but text or json.
func ValidateFormat(format string) error {
	switch format {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("%q (use text or json): %w", format, lerrors.ErrInvalidOutputFormat)
}

// Output provides methods for structured output to a terminal.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its remediation hint.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
	// IsJSON reports whether renderers should emit JSON documents.
	IsJSON() bool
	// Writer returns the underlying writer.
	Writer() io.Writer
}

// TTYOutput provides styled output for terminal displays.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a new TTYOutput.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints the error followed by the suggested action, if any.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
	if _, action := lerrors.Actionable(err); action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// JSON outputs a value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// IsJSON implements Output.
func (o *TTYOutput) IsJSON() bool { return false }

// Writer implements Output.
func (o *TTYOutput) Writer() io.Writer { return o.w }

// JSONOutput emits one JSON document per message for scripts and CI.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

func (o *JSONOutput) emit(m jsonMessage) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = json.NewEncoder(o.w).Encode(m)
}

// Success implements Output.
func (o *JSONOutput) Success(msg string) { o.emit(jsonMessage{Type: "success", Message: msg}) }

// Error implements Output.
func (o *JSONOutput) Error(err error) {
	_, action := lerrors.Actionable(err)
	o.emit(jsonMessage{Type: "error", Message: err.Error(), Action: action})
}

// Warning implements Output.
func (o *JSONOutput) Warning(msg string) { o.emit(jsonMessage{Type: "warning", Message: msg}) }

// Info implements Output.
func (o *JSONOutput) Info(msg string) { o.emit(jsonMessage{Type: "info", Message: msg}) }

// JSON outputs a value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// IsJSON implements Output.
func (o *JSONOutput) IsJSON() bool { return true }

// Writer implements Output.
func (o *JSONOutput) Writer() io.Writer { return o.w }

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the output for format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
