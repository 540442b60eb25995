// Package markdown renders local-mode review results into a Markdown
// report file.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/diffsentry/diffsentry/internal/domain"
)

type clock func() time.Time

// Writer renders review reports into Markdown files.
type Writer struct {
	now clock
}

// NewWriter constructs a Markdown writer with a timestamp supplier. A nil
// supplier uses the wall clock.
func NewWriter(now clock) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{now: now}
}

// Write persists the report to the artifact's output path, creating parent
// directories as needed. Returns the written path.
func (w *Writer) Write(ctx context.Context, artifact domain.ReportArtifact) (string, error) {
	if artifact.OutputPath == "" {
		return "", fmt.Errorf("report output path is empty")
	}
	if dir := filepath.Dir(artifact.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}

	content := buildContent(artifact, w.now())
	if err := os.WriteFile(artifact.OutputPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return artifact.OutputPath, nil
}

func buildContent(artifact domain.ReportArtifact, generatedAt time.Time) string {
	var builder strings.Builder
	caser := cases.Title(language.English)

	builder.WriteString("# Gemini Code Review Report\n\n")
	if artifact.Repository != "" {
		builder.WriteString(fmt.Sprintf("- Repository: %s\n", artifact.Repository))
	}
	builder.WriteString(fmt.Sprintf("- Base: %s\n", artifact.BaseRef))
	builder.WriteString(fmt.Sprintf("- Target: %s\n", artifact.TargetRef))
	builder.WriteString(fmt.Sprintf("- Generated: %s\n\n", generatedAt.Format(time.RFC3339)))

	report := artifact.Report
	builder.WriteString("## Summary\n\n")
	builder.WriteString(fmt.Sprintf("- Files examined: %d (skipped %d, reviewed %d)\n",
		report.FilesExamined, report.FilesSkipped, report.FilesReviewed))
	builder.WriteString(fmt.Sprintf("- Comments accepted: %d (discarded %d)\n\n",
		report.CommentsAccepted, report.CommentsDiscarded))

	if len(artifact.Comments) == 0 {
		builder.WriteString("No comments reported.\n")
		return builder.String()
	}

	statuses := make(map[string]string, len(artifact.Files))
	for _, f := range artifact.Files {
		statuses[f.Filename] = f.Status
	}

	grouped := make(map[string][]domain.AcceptedComment)
	var order []string
	for _, c := range artifact.Comments {
		if _, seen := grouped[c.Path]; !seen {
			order = append(order, c.Path)
		}
		grouped[c.Path] = append(grouped[c.Path], c)
	}

	builder.WriteString("## Comments\n\n")
	for _, path := range order {
		if status := statuses[path]; status != "" {
			builder.WriteString(fmt.Sprintf("### %s (%s)\n\n", path, caser.String(status)))
		} else {
			builder.WriteString(fmt.Sprintf("### %s\n\n", path))
		}
		for _, c := range grouped[path] {
			builder.WriteString(fmt.Sprintf("- Line %d: %s\n", c.Line, c.Body))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}
