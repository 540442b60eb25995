package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/diffsentry/diffsentry/internal/domain"
)

// AppendStepSummary appends markdown to the Actions step summary file at
// path. The file accumulates output across workflow steps, so the write is
// append-only.
func AppendStepSummary(path, markdown string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step summary: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(markdown); err != nil {
		return fmt.Errorf("write step summary: %w", err)
	}
	return nil
}

// FormatRunSummary renders the run counters as the markdown block appended
// to the step summary.
func FormatRunSummary(repository string, prNumber int, modelName string, report domain.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Gemini Code Review\n\n")
	fmt.Fprintf(&b, "Reviewed %s#%d with `%s`.\n\n", repository, prNumber, modelName)
	fmt.Fprintf(&b, "| Metric | Count |\n")
	fmt.Fprintf(&b, "|---|---|\n")
	fmt.Fprintf(&b, "| Files examined | %d |\n", report.FilesExamined)
	fmt.Fprintf(&b, "| Files skipped | %d |\n", report.FilesSkipped)
	fmt.Fprintf(&b, "| Files reviewed | %d |\n", report.FilesReviewed)
	fmt.Fprintf(&b, "| Comments accepted | %d |\n", report.CommentsAccepted)
	fmt.Fprintf(&b, "| Comments discarded | %d |\n\n", report.CommentsDiscarded)

	switch {
	case report.Submitted:
		fmt.Fprintf(&b, "Review submitted with %d inline comments.\n", report.CommentsAccepted)
	case report.CommentsAccepted == 0:
		fmt.Fprintf(&b, "No comments to post.\n")
	default:
		fmt.Fprintf(&b, "Review submission failed; see the job log.\n")
	}
	return b.String()
}
