package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/diffsentry/diffsentry/internal/domain"
)

// LocalTask describes a review of a local repository's diff.
type LocalTask struct {
	BaseRef   string
	TargetRef string

	// Repository optionally labels the report header.
	Repository string

	// ReportPath, when set, is where the markdown report is written.
	ReportPath string
}

// LocalResult carries the run counters and, when a report was requested,
// the path it was written to.
type LocalResult struct {
	Report     domain.RunReport
	ReportPath string
}

func (o *Orchestrator) validateLocalDeps(task LocalTask) error {
	if o.deps.Differ == nil {
		return errors.New("diff engine is required")
	}
	if o.deps.Provider == nil {
		return errors.New("provider is required")
	}
	if o.deps.Seed == nil {
		return errors.New("seed generator is required")
	}
	if task.ReportPath != "" && o.deps.Report == nil {
		return errors.New("report writer is required when a report path is set")
	}
	return nil
}

// ReviewLocal diffs two refs of the working repository and runs every
// changed file through the same request-and-filter steps as a pull
// request run. Accepted comments are printed grouped by file instead of
// submitted anywhere.
func (o *Orchestrator) ReviewLocal(ctx context.Context, task LocalTask) (LocalResult, error) {
	var result LocalResult

	if err := o.validateLocalDeps(task); err != nil {
		return result, err
	}

	localDiff, err := o.deps.Differ.Diff(ctx, task.BaseRef, task.TargetRef)
	if err != nil {
		return result, err
	}
	o.deps.Logger.Info().
		Str("base", localDiff.BaseSHA).
		Str("target", localDiff.TargetSHA).
		Int("files", len(localDiff.Files)).
		Msg("reviewing local diff")

	seed := o.deps.Seed(localDiff.BaseSHA, localDiff.TargetSHA)

	var comments []domain.AcceptedComment
	for _, file := range localDiff.Files {
		comments = append(comments, o.reviewFile(ctx, file, seed, &result.Report)...)
	}

	o.renderComments(comments, result.Report)

	if task.ReportPath != "" {
		path, err := o.deps.Report.Write(ctx, domain.ReportArtifact{
			OutputPath: task.ReportPath,
			Repository: task.Repository,
			BaseRef:    task.BaseRef,
			TargetRef:  task.TargetRef,
			Files:      localDiff.Files,
			Comments:   comments,
			Report:     result.Report,
		})
		if err != nil {
			return result, fmt.Errorf("write report: %w", err)
		}
		result.ReportPath = path
		o.deps.Logger.Info().Str("path", path).Msg("report written")
	}

	return result, nil
}

// ANSI escapes for local-mode file headings.
const (
	ansiBold  = "\033[1m"
	ansiCyan  = "\033[36m"
	ansiReset = "\033[0m"
)

// renderComments prints accepted comments grouped by file, files in
// first-appearance order, then a one-line tally.
func (o *Orchestrator) renderComments(comments []domain.AcceptedComment, report domain.RunReport) {
	out := o.deps.Output

	if len(comments) == 0 {
		fmt.Fprintf(out, "No review comments. Examined %d files (%d skipped).\n",
			report.FilesExamined, report.FilesSkipped)
		return
	}

	grouped := make(map[string][]domain.AcceptedComment)
	var order []string
	for _, comment := range comments {
		if _, seen := grouped[comment.Path]; !seen {
			order = append(order, comment.Path)
		}
		grouped[comment.Path] = append(grouped[comment.Path], comment)
	}

	for _, path := range order {
		if o.deps.Color {
			fmt.Fprintf(out, "%s%s%s%s\n", ansiBold, ansiCyan, path, ansiReset)
		} else {
			fmt.Fprintln(out, path)
		}
		for _, comment := range grouped[path] {
			fmt.Fprintf(out, "  %d: %s\n", comment.Line, comment.Body)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%d comments across %d files (%d discarded).\n",
		len(comments), len(order), report.CommentsDiscarded)
}
