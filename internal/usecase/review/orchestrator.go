// Package review implements the review pipeline: fetch the changed
// files, ask the model for comments on each file's patch, keep only the
// comments that land on changed lines, and submit the survivors as one
// grouped review.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/diffsentry/diffsentry/internal/diff"
	"github.com/diffsentry/diffsentry/internal/domain"
)

// SummaryBody is the fixed body line attached to every submitted review.
const SummaryBody = "Gemini Code Review Summary"

// PullRequestSource fetches pull request state from the hosting platform.
type PullRequestSource interface {
	// GetPullRequest returns the pull request's metadata.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (domain.PullRequest, error)

	// ListCommits returns the pull request's commit SHAs in order. The
	// last entry is the commit the review anchors to.
	ListCommits(ctx context.Context, owner, repo string, number int) ([]string, error)

	// ListFiles returns the changed files with their inline patches.
	ListFiles(ctx context.Context, owner, repo string, number int) ([]domain.ChangedFile, error)
}

// Provider defines the outbound port for AI review requests.
type Provider interface {
	Review(ctx context.Context, req ProviderRequest) (ProviderResult, error)
	EstimateTokens(text string) int
}

// ProviderRequest describes the payload the model provider expects.
type ProviderRequest struct {
	Prompt string
	Seed   int64
}

// ProviderResult carries the validated candidate comments for one file
// plus usage metadata for logging.
type ProviderResult struct {
	ModelName  string
	Candidates []domain.CandidateComment
	TokensIn   int
	TokensOut  int
}

// Poster defines the outbound port for submitting the finished review.
type Poster interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}

// SubmitRequest identifies the pull request and carries the batch to post.
type SubmitRequest struct {
	Owner      string
	Repo       string
	PullNumber int
	Batch      domain.ReviewBatch
}

// SubmitResult reports what the hosting platform accepted.
type SubmitResult struct {
	ReviewID       int64
	CommentsPosted int
}

// Differ computes the diff between two refs of a local repository.
type Differ interface {
	Diff(ctx context.Context, baseRef, targetRef string) (domain.LocalDiff, error)
}

// ReportWriter persists a local review report.
type ReportWriter interface {
	Write(ctx context.Context, artifact domain.ReportArtifact) (string, error)
}

// Redactor scrubs credential-shaped strings from patch text before it
// leaves the process.
type Redactor interface {
	Redact(input string) string
}

// SeedFunc derives the sampling seed for a review scope.
type SeedFunc func(subject, revision string) int64

// OrchestratorDeps captures the orchestrator's collaborators. Source and
// Poster serve pull request runs, Differ serves local runs. Redactor,
// Report, and Output are optional.
type OrchestratorDeps struct {
	Source   PullRequestSource
	Provider Provider
	Poster   Poster
	Differ   Differ
	Redactor Redactor
	Report   ReportWriter
	Seed     SeedFunc
	Logger   zerolog.Logger

	// Output receives local-mode review text. Defaults to stdout.
	Output io.Writer

	// Color enables ANSI styling of local-mode file headings.
	Color bool
}

// PullRequestTask identifies the pull request a run reviews.
type PullRequestTask struct {
	Owner  string
	Repo   string
	Number int

	// DryRun stops the pipeline just before submission and logs the
	// batch that would have been posted.
	DryRun bool
}

// Orchestrator drives the review pipeline end to end.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Output == nil {
		deps.Output = os.Stdout
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validatePullRequestDeps() error {
	if o.deps.Source == nil {
		return errors.New("pull request source is required")
	}
	if o.deps.Provider == nil {
		return errors.New("provider is required")
	}
	if o.deps.Poster == nil {
		return errors.New("poster is required")
	}
	if o.deps.Seed == nil {
		return errors.New("seed generator is required")
	}
	return nil
}

// ReviewPullRequest runs the pipeline against a hosted pull request and
// returns the run counters. Per-file provider failures and submission
// failures degrade to log entries rather than failing the run; only
// missing dependencies and pull request fetch errors are fatal.
func (o *Orchestrator) ReviewPullRequest(ctx context.Context, task PullRequestTask) (domain.RunReport, error) {
	var report domain.RunReport

	if err := o.validatePullRequestDeps(); err != nil {
		return report, err
	}

	pr, err := o.deps.Source.GetPullRequest(ctx, task.Owner, task.Repo, task.Number)
	if err != nil {
		return report, fmt.Errorf("fetch pull request: %w", err)
	}
	o.deps.Logger.Info().
		Int("number", pr.Number).
		Str("title", pr.Title).
		Msg("reviewing pull request")

	commits, err := o.deps.Source.ListCommits(ctx, task.Owner, task.Repo, task.Number)
	if err != nil {
		return report, fmt.Errorf("list commits: %w", err)
	}
	if len(commits) == 0 {
		return report, fmt.Errorf("pull request %d has no commits", task.Number)
	}
	commitSHA := commits[len(commits)-1]

	files, err := o.deps.Source.ListFiles(ctx, task.Owner, task.Repo, task.Number)
	if err != nil {
		return report, fmt.Errorf("list files: %w", err)
	}

	seed := o.deps.Seed(fmt.Sprintf("%s/%s#%d", task.Owner, task.Repo, task.Number), commitSHA)

	batch := domain.ReviewBatch{
		CommitSHA: commitSHA,
		Body:      SummaryBody,
	}
	for _, file := range files {
		batch.Comments = append(batch.Comments, o.reviewFile(ctx, file, seed, &report)...)
	}

	if len(batch.Comments) == 0 {
		o.deps.Logger.Info().
			Int("files", report.FilesExamined).
			Msg("no comments to post")
		return report, nil
	}

	if task.DryRun {
		o.logDryRun(batch)
		return report, nil
	}

	result, err := o.deps.Poster.Submit(ctx, SubmitRequest{
		Owner:      task.Owner,
		Repo:       task.Repo,
		PullNumber: task.Number,
		Batch:      batch,
	})
	if err != nil {
		o.deps.Logger.Error().Err(err).Msg("failed to post review")
		return report, nil
	}

	report.Submitted = true
	o.deps.Logger.Info().
		Int64("review_id", result.ReviewID).
		Int("comments", result.CommentsPosted).
		Msg("review posted")

	return report, nil
}

// reviewFile runs one changed file through the request-and-filter steps
// and returns its accepted comments. Skips and provider failures return
// nil after logging; the report counters record which happened.
func (o *Orchestrator) reviewFile(ctx context.Context, file domain.ChangedFile, seed int64, report *domain.RunReport) []domain.AcceptedComment {
	report.FilesExamined++

	logger := o.deps.Logger.With().Str("file", file.Filename).Logger()

	if file.Status == domain.FileStatusRemoved {
		report.FilesSkipped++
		logger.Info().Str("reason", "file removed").Msg("skipping file")
		return nil
	}
	if file.Patch == "" {
		report.FilesSkipped++
		logger.Info().Str("reason", "no patch available").Msg("skipping file")
		return nil
	}

	// The changed-line set comes from the raw patch; redaction only
	// rewrites text within lines, so it is applied to the prompt copy.
	changed := diff.ChangedLines(file.Patch)

	patch := file.Patch
	if o.deps.Redactor != nil {
		patch = o.deps.Redactor.Redact(patch)
	}

	prompt := BuildPrompt(file.Filename, patch)
	logger.Debug().
		Int("prompt_tokens", o.deps.Provider.EstimateTokens(prompt)).
		Int("changed_lines", changed.Len()).
		Msg("requesting review")

	result, err := o.deps.Provider.Review(ctx, ProviderRequest{Prompt: prompt, Seed: seed})
	if err != nil {
		logger.Error().Err(err).Msg("review request failed, no comments for this file")
		return nil
	}

	report.FilesReviewed++
	report.CandidatesSeen += len(result.Candidates)

	accepted, discarded := FilterCandidates(logger, file.Filename, changed, result.Candidates)
	report.CommentsAccepted += len(accepted)
	report.CommentsDiscarded += discarded
	return accepted
}

// logDryRun reports the batch a real run would have submitted.
func (o *Orchestrator) logDryRun(batch domain.ReviewBatch) {
	for _, comment := range batch.Comments {
		o.deps.Logger.Info().
			Str("path", comment.Path).
			Int("line", comment.Line).
			Msg("dry run: would post comment")
	}
	o.deps.Logger.Info().
		Int("comments", len(batch.Comments)).
		Str("commit", batch.CommitSHA).
		Msg("dry run: skipping submission")
}
