package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/liftoff/internal/artifact"
	"github.com/mrz1836/liftoff/internal/constants"
	"github.com/mrz1836/liftoff/internal/notary"
	"github.com/mrz1836/liftoff/internal/pipeline"
	"github.com/mrz1836/liftoff/internal/publish"
	"github.com/mrz1836/liftoff/internal/toolchain"
)

// StageTitle turns a stage name like "bump-version" into "Bump Version".
func StageTitle(name pipeline.StageName) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(name), "-", " "))
}

// stageIcon keeps icon, color and text redundant for every result.
func stageIcon(r pipeline.StageResult, styles *OutputStyles) string {
	switch {
	case !r.Success:
		return styles.Error.Render("✗")
	case r.Skipped:
		return styles.Warning.Render("○")
	}
	return styles.Success.Render("✓")
}

// RunReport is the JSON document for a finished run.
type RunReport struct {
	*pipeline.Run

	Advisories []string                 `json:"advisories,omitempty"`
	Artifact   *artifact.Artifact       `json:"artifact,omitempty"`
	Selection  *notary.Selection        `json:"selection,omitempty"`
	Submission *notary.SubmissionRecord `json:"submission,omitempty"`
	Published  *publish.Result          `json:"published,omitempty"`
}

// NewRunReport collects the reportable parts of run.
func NewRunReport(run *pipeline.Run) RunReport {
	report := RunReport{Run: run}
	if st := run.State; st != nil {
		report.Advisories = st.Advisories
		report.Artifact = st.Artifact
		report.Selection = st.Selection
		report.Submission = st.Submission
		report.Published = st.Published
	}
	return report
}

// RenderRun prints the stage results, advisories and outcome of run.
func RenderRun(out Output, run *pipeline.Run) error {
	if out.IsJSON() {
		return out.JSON(NewRunReport(run))
	}

	styles := NewOutputStyles()
	w := out.Writer()

	header := run.Operation
	if run.Version != "" {
		header += " " + run.Version
	}
	_, _ = fmt.Fprintln(w, styles.Header.Render(header))

	titleWidth := 0
	for _, name := range run.Stages {
		titleWidth = max(titleWidth, lipgloss.Width(StageTitle(name)))
	}

	for i, name := range run.Stages {
		title := StageTitle(name)
		pad := strings.Repeat(" ", titleWidth-lipgloss.Width(title))
		if i >= len(run.Results) {
			_, _ = fmt.Fprintf(w, "%s %s%s  %s\n", styles.Dim.Render("·"), styles.Dim.Render(title), pad, styles.Dim.Render("not run"))
			continue
		}
		r := run.Results[i]
		_, _ = fmt.Fprintf(w, "%s %s%s  %s %s\n",
			stageIcon(r, styles), title, pad, r.Message, styles.Dim.Render(r.Duration.Round(time.Millisecond).String()))
	}

	if run.State != nil {
		for _, a := range run.State.Advisories {
			out.Warning(a)
		}
		if sub := run.State.Submission; sub != nil {
			renderSubmission(out, styles, sub)
		}
	}

	if run.Outcome.Success {
		out.Success(fmt.Sprintf("%s finished in %s", run.Operation, run.FinishedAt.Sub(run.StartedAt).Round(time.Second)))
	}
	return nil
}

// renderSubmission prints the parsed log of a rejected submission, or the
// captured tool output when there is no parsed log.
func renderSubmission(out Output, styles *OutputStyles, sub *notary.SubmissionRecord) {
	if sub.Log != nil {
		out.Info(sub.Log.Summary())
		return
	}
	if sub.Status != constants.SubmissionStatusError && sub.Status != constants.SubmissionStatusInvalid {
		return
	}
	tail := notary.DiagnosticTail(sub.Diagnostics)
	if tail == "" {
		return
	}
	w := out.Writer()
	_, _ = fmt.Fprintln(w, styles.Dim.Render(sub.Backend.String()+" output:"))
	for _, line := range strings.Split(tail, "\n") {
		_, _ = fmt.Fprintln(w, "  "+line)
	}
}

// RenderProbes prints one line per probed backend.
func RenderProbes(out Output, probes []notary.ProbeResult) error {
	if out.IsJSON() {
		return out.JSON(probes)
	}
	for _, p := range probes {
		line := fmt.Sprintf("%-10s %s", p.Backend, p.Outcome)
		if p.Detail != "" {
			line += " (" + p.Detail + ")"
		}
		if p.Accepted() {
			out.Success(line)
		} else {
			out.Warning(line)
		}
	}
	return nil
}

// RenderTools prints the tool detection report.
func RenderTools(out Output, report *toolchain.ToolReport) error {
	if out.IsJSON() {
		return out.JSON(report)
	}
	for _, tool := range report.Tools {
		line := tool.Name
		if tool.CurrentVersion != "" {
			line += " " + tool.CurrentVersion
		}
		switch {
		case tool.Status == toolchain.ToolStatusInstalled:
			out.Success(line)
		case tool.Required:
			out.Error(fmt.Errorf("%s %s: %s", line, tool.Status, tool.InstallHint)) //nolint:err113 // display only
		default:
			out.Warning(fmt.Sprintf("%s %s (optional): %s", line, tool.Status, tool.InstallHint))
		}
	}
	return nil
}

// RenderArtifact prints the result of artifact validation.
func RenderArtifact(out Output, art *artifact.Artifact) error {
	if out.IsJSON() {
		return out.JSON(art)
	}
	out.Success(fmt.Sprintf("%s (%s, %d bytes)", art.Path, art.Format, art.Size))
	for _, w := range art.Warnings {
		out.Warning(string(w))
	}
	return nil
}
