package notary

import (
	"encoding/json"
	"fmt"
	"strings"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
)

// NotarizationLog is the JSON diagnostic document returned for a submission.
type NotarizationLog struct {
	JobID           string        `json:"jobId"`
	Status          string        `json:"status"`
	StatusSummary   string        `json:"statusSummary"`
	StatusCode      int           `json:"statusCode"`
	ArchiveFilename string        `json:"archiveFilename"`
	UploadDate      string        `json:"uploadDate"`
	SHA256          string        `json:"sha256"`
	TicketContents  []TicketEntry `json:"ticketContents"`
	Issues          []LogIssue    `json:"issues"`
}

// TicketEntry describes one signed binary covered by the ticket.
type TicketEntry struct {
	Path            string `json:"path"`
	DigestAlgorithm string `json:"digestAlgorithm"`
	CDHash          string `json:"cdhash"`
	Arch            string `json:"arch"`
}

// LogIssue is a single finding reported by the service.
type LogIssue struct {
	Severity     string `json:"severity"`
	Code         *int   `json:"code"`
	Path         string `json:"path"`
	Message      string `json:"message"`
	DocURL       string `json:"docUrl"`
	Architecture string `json:"architecture"`
}

// ParseLog decodes a diagnostic log document.
func ParseLog(data []byte) (*NotarizationLog, error) {
	var l NotarizationLog
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, lerrors.Wrap(err, "failed to parse notarization log")
	}
	return &l, nil
}

// Errors returns the issues with severity "error".
func (l *NotarizationLog) Errors() []LogIssue {
	var out []LogIssue
	for _, issue := range l.Issues {
		if strings.EqualFold(issue.Severity, "error") {
			out = append(out, issue)
		}
	}
	return out
}

// Summary renders the log as a short human-readable report.
func (l *NotarizationLog) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", l.Status, l.StatusSummary)
	for _, issue := range l.Issues {
		fmt.Fprintf(&b, "\n  [%s] %s", issue.Severity, issue.Message)
		if issue.Path != "" {
			fmt.Fprintf(&b, " (%s", issue.Path)
			if issue.Architecture != "" {
				fmt.Fprintf(&b, ", %s", issue.Architecture)
			}
			b.WriteString(")")
		}
	}
	return b.String()
}
