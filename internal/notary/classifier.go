package notary

import (
	"regexp"
	"strings"

	"github.com/mrz1836/liftoff/internal/constants"
)

// PatternSetVersion identifies the set of tool phrases Classifier recognizes.
// Bump it whenever a pattern is added, removed or reordered, and refresh the
// recorded samples in testdata/.
const PatternSetVersion = "2"

// FailureKind classifies why a tool invocation failed.
type FailureKind int

const (
	// FailureUnknown means the output matched no known failure phrase.
	FailureUnknown FailureKind = iota
	// FailureAuth means the service refused the credentials.
	FailureAuth
	// FailureNetwork means the service could not be reached.
	FailureNetwork
)

// String returns a human-readable name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureUnknown:
		return "unknown"
	case FailureAuth:
		return "authentication"
	case FailureNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// PatternMatcher checks if a string contains any of a list of lowercase patterns.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a PatternMatcher. Patterns must be lowercase.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches lowercases s and reports whether it contains any pattern.
func (m *PatternMatcher) Matches(s string) bool {
	return m.MatchesLower(strings.ToLower(s))
}

// MatchesLower checks an already-lowercased string.
func (m *PatternMatcher) MatchesLower(lower string) bool {
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Package-level immutable pattern matchers
var (
	authPatterns = NewPatternMatcher(
		"invalid username and password",
		"invalid credentials",
		"unable to validate your application",
		"authentication failed",
		"http status code: 401",
		"unauthorized",
		"not authorized",
		"app-specific password",
		"sign in with the app-specific password",
		"error: -20101",
		"code=-20101",
		"team id is invalid",
		"no team found",
	)

	networkPatterns = NewPatternMatcher(
		"could not connect",
		"network connection was lost",
		"internet connection appears to be offline",
		"could not be reached",
		"a server with the specified hostname could not be found",
		"the request timed out",
		"connection refused",
		"error: -1009",
		"error: -1001",
		"nsurlerrordomain",
	)

	// Status phrases are anchored on "status:" so that "status message:" and
	// "status code:" lines never match.
	invalidPatterns = NewPatternMatcher(
		"status: invalid",
		"status: rejected",
		"package invalid",
	)

	acceptedPatterns = NewPatternMatcher(
		"status: accepted",
		"status: success",
		"package approved",
	)

	inProgressPatterns = NewPatternMatcher(
		"status: in progress",
		"in progress",
	)

	submissionIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)RequestUUID\s*=\s*([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`),
		regexp.MustCompile(`(?im)^\s*id:\s*([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})\s*$`),
		regexp.MustCompile(`(?i)"id"\s*:\s*"([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})"`),
	}

	logURLPattern = regexp.MustCompile(`(?i)LogFileURL:\s*(https://\S+)`)
)

// Classifier maps free-form tool output to outcomes. It is the only place in
// liftoff that inspects tool wording.
//
// Unrecognized status output classifies as in progress, never as success, so
// a wording change makes the tracker keep polling (and eventually time out)
// instead of reporting a false acceptance.
type Classifier struct {
	auth       *PatternMatcher
	network    *PatternMatcher
	invalid    *PatternMatcher
	accepted   *PatternMatcher
	inProgress *PatternMatcher
}

// NewClassifier returns a Classifier using the current pattern set.
func NewClassifier() *Classifier {
	return &Classifier{
		auth:       authPatterns,
		network:    networkPatterns,
		invalid:    invalidPatterns,
		accepted:   acceptedPatterns,
		inProgress: inProgressPatterns,
	}
}

// Version returns the pattern set version.
func (c *Classifier) Version() string {
	return PatternSetVersion
}

// ClassifyFailure decides why a tool reported an error. Authentication wins
// over network when both appear since it needs user action.
func (c *Classifier) ClassifyFailure(output string) FailureKind {
	lower := strings.ToLower(output)
	if c.auth.MatchesLower(lower) {
		return FailureAuth
	}
	if c.network.MatchesLower(lower) {
		return FailureNetwork
	}
	return FailureUnknown
}

// ClassifyStatus maps a status query's output to a submission status.
// Rejection markers are checked first, so output that contains both is
// never treated as accepted.
func (c *Classifier) ClassifyStatus(output string) constants.SubmissionStatus {
	lower := strings.ToLower(output)
	switch {
	case c.invalid.MatchesLower(lower):
		return constants.SubmissionStatusInvalid
	case c.accepted.MatchesLower(lower):
		return constants.SubmissionStatusAccepted
	default:
		return constants.SubmissionStatusInProgress
	}
}

// IsKnownStatus reports whether output contains any recognized status
// phrase. Used to log when the fail-safe default is applied.
func (c *Classifier) IsKnownStatus(output string) bool {
	lower := strings.ToLower(output)
	return c.invalid.MatchesLower(lower) || c.accepted.MatchesLower(lower) || c.inProgress.MatchesLower(lower)
}

// SubmissionID extracts the tracking identifier from submit output.
func (c *Classifier) SubmissionID(output string) (string, bool) {
	for _, re := range submissionIDPatterns {
		if m := re.FindStringSubmatch(output); m != nil {
			return strings.ToLower(m[1]), true
		}
	}
	return "", false
}

// LogURL extracts the diagnostic log location from altool status output.
func (c *Classifier) LogURL(output string) (string, bool) {
	m := logURLPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	url := strings.TrimSpace(m[1])
	if strings.EqualFold(url, "(null)") {
		return "", false
	}
	return url, true
}
