// Package logging provides zerolog helpers that keep secrets out of logs.
//
// Apple app-specific passwords are passed on the command line of altool and
// notarytool, so every command that is logged or written to the rotating log
// file goes through FilterSensitiveValue first.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals // Package-level compiled patterns
var sensitivePatterns = []*regexp.Regexp{
	// Apple app-specific passwords (abcd-efgh-ijkl-mnop)
	regexp.MustCompile(`\b[a-z]{4}-[a-z]{4}-[a-z]{4}-[a-z]{4}\b`),

	// Password flags of altool/notarytool (-p value, --password value). Bare
	// values stop at a quote, comma or backslash so JSON log lines stay intact.
	regexp.MustCompile(`(?i)(\s(?:-p|--password)[\s=])(\\"[^"\\]*\\"|"[^"]*"|'[^']*'|[^\s",\\]+)`),

	// AWS access key IDs
	regexp.MustCompile(`\b(?:AKIA|ASIA)[A-Z0-9]{16}\b`),

	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{20,}`),

	// Generic secret assignments
	regexp.MustCompile(`(?i)(secret|password|passwd|pwd|token)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Private keys
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

//nolint:gochecknoglobals // Package-level list
var sensitiveFieldNames = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"credential",
	"private_key",
	"authorization",
	"apple_password",
	"aws_secret_access_key",
}

// SensitiveDataHook flags log events whose message contains sensitive data.
// zerolog hooks cannot rewrite the message, so redaction of the file output is
// done by FilteringWriter; the hook marks the event for review.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value with [REDACTED].
// Password flags keep the flag itself so logged commands stay readable.
func FilterSensitiveValue(value string) string {
	result := value
	for i, pattern := range sensitivePatterns {
		if i == 1 {
			result = pattern.ReplaceAllString(result, "${1}"+RedactedValue)
			continue
		}
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName reports whether a field name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// SafeValue returns [REDACTED] for sensitive field names and a filtered value otherwise.
//
//	log.Debug().Str("args", logging.SafeValue("args", joined)).Msg("running tool")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write filters p and writes it, reporting the original length so callers
// never see a short write.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	return len(p), nil
}
