package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diffsentry/diffsentry/internal/adapter/actions"
	"github.com/diffsentry/diffsentry/internal/adapter/cli"
	"github.com/diffsentry/diffsentry/internal/adapter/git"
	githubadapter "github.com/diffsentry/diffsentry/internal/adapter/github"
	"github.com/diffsentry/diffsentry/internal/adapter/llm/gemini"
	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/adapter/observability"
	"github.com/diffsentry/diffsentry/internal/adapter/output/markdown"
	"github.com/diffsentry/diffsentry/internal/config"
	"github.com/diffsentry/diffsentry/internal/determinism"
	"github.com/diffsentry/diffsentry/internal/redaction"
	usecasegithub "github.com/diffsentry/diffsentry/internal/usecase/github"
	"github.com/diffsentry/diffsentry/internal/usecase/review"
	"github.com/diffsentry/diffsentry/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "diffsentry",
		EnvPrefix:   "DIFFSENTRY",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := observability.Setup(cfg.Logging, uuid.NewString())

	root := cli.NewRootCommand(cli.Dependencies{
		Reviewer: &app{cfg: cfg, logger: logger},
		Version:  version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// app implements the CLI's reviewer by assembling the pipeline per
// command. Adapters are built inside each method because the two modes
// need different credentials and validation.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
}

// Run reviews the pull request that triggered the current workflow run.
// Non pull request events are a clean no-op so the same workflow step
// can fire on pushes without failing the job.
func (a *app) Run(ctx context.Context, req cli.RunRequest) error {
	if err := a.cfg.ValidateRun(); err != nil {
		return err
	}

	number, ok, err := actions.ReadPullRequestNumber(a.cfg.EventPath)
	if err != nil {
		return err
	}
	if !ok {
		a.logger.Info().Msg("event is not a pull request, nothing to review")
		return nil
	}

	owner, repo, err := a.cfg.ParseRepository()
	if err != nil {
		return err
	}

	client := a.buildGitHubClient()
	provider, metrics := a.buildProvider()
	defer logUsage(a.logger, metrics)

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		Source:   client,
		Provider: provider,
		Poster:   &posterAdapter{poster: usecasegithub.NewReviewPoster(client)},
		Redactor: a.buildRedactor(),
		Seed:     a.seedFunc(),
		Logger:   a.logger,
	})

	report, err := orchestrator.ReviewPullRequest(ctx, review.PullRequestTask{
		Owner:  owner,
		Repo:   repo,
		Number: number,
		DryRun: req.DryRun,
	})
	if err != nil {
		return err
	}

	if req.DryRun {
		return nil
	}
	if path := os.Getenv("GITHUB_STEP_SUMMARY"); path != "" {
		summary := actions.FormatRunSummary(a.cfg.Repository, number, a.cfg.Model, report)
		if err := actions.AppendStepSummary(path, summary); err != nil {
			a.logger.Warn().Err(err).Msg("failed to append step summary")
		}
	}
	return nil
}

// Local reviews the diff between two refs of a local repository and
// prints the comments instead of posting them.
func (a *app) Local(ctx context.Context, req cli.LocalRequest) error {
	if err := a.cfg.ValidateLocal(); err != nil {
		return err
	}

	provider, metrics := a.buildProvider()
	defer logUsage(a.logger, metrics)

	orchestrator := review.NewOrchestrator(review.OrchestratorDeps{
		Provider: provider,
		Differ:   git.NewEngine(req.Dir),
		Redactor: a.buildRedactor(),
		Report:   markdown.NewWriter(nil),
		Seed:     a.seedFunc(),
		Logger:   a.logger,
		Color:    review.IsOutputTerminal(),
	})

	_, err := orchestrator.ReviewLocal(ctx, review.LocalTask{
		BaseRef:    req.BaseRef,
		TargetRef:  req.TargetRef,
		Repository: repositoryName(req.Dir),
		ReportPath: req.ReportPath,
	})
	return err
}

func (a *app) buildGitHubClient() *githubadapter.Client {
	client := githubadapter.NewClient(a.cfg.GitHubToken)
	if a.cfg.GitHub.BaseURL != "" {
		client.SetBaseURL(a.cfg.GitHub.BaseURL)
	}
	client.SetTimeout(llmhttp.ParseTimeout(a.cfg.GitHub.Timeout, 30*time.Second))
	client.SetRetryConfig(llmhttp.BuildRetryConfig(a.cfg.GitHub))
	return client
}

func (a *app) buildProvider() (*gemini.Provider, *llmhttp.DefaultMetrics) {
	metrics := llmhttp.NewDefaultMetrics()
	client := gemini.NewHTTPClient(a.cfg.GeminiAPIKey, a.cfg.Gemini)
	client.SetLogger(observability.NewAPILogger(a.logger))
	client.SetMetrics(metrics)
	return gemini.NewProvider(a.cfg.Model, client), metrics
}

func (a *app) buildRedactor() review.Redactor {
	if !a.cfg.Redaction.Enabled {
		return nil
	}
	return redaction.NewEngine()
}

// seedFunc returns the sampling seed generator. With seeding disabled
// the seed stays zero, which the generation request omits, so the API
// samples freely.
func (a *app) seedFunc() review.SeedFunc {
	if !a.cfg.Gemini.UseSeed {
		return func(subject, revision string) int64 { return 0 }
	}
	return determinism.GenerateSeed
}

// logUsage emits the aggregate token usage collected across a run.
func logUsage(logger zerolog.Logger, metrics *llmhttp.DefaultMetrics) {
	stats := metrics.GetStats()
	if stats.TotalRequests == 0 {
		return
	}
	logger.Info().
		Int("requests", stats.TotalRequests).
		Int("tokens_in", stats.TotalTokensIn).
		Int("tokens_out", stats.TotalTokensOut).
		Dur("api_time", stats.TotalDuration).
		Int("errors", stats.ErrorCount).
		Msg("model usage")
}

func repositoryName(repoDir string) string {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return "unknown"
	}
	return filepath.Base(abs)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "diffsentry"))
	}
	return paths
}

// Compile-time interface checks
var _ cli.Reviewer = (*app)(nil)
var _ review.PullRequestSource = (*githubadapter.Client)(nil)
var _ review.Provider = (*gemini.Provider)(nil)
var _ review.Differ = (*git.Engine)(nil)
var _ review.Redactor = (*redaction.Engine)(nil)
var _ review.ReportWriter = (*markdown.Writer)(nil)
var _ review.Poster = (*posterAdapter)(nil)
var _ usecasegithub.ReviewClient = (*githubadapter.Client)(nil)

// posterAdapter bridges the pipeline's poster port to the GitHub review
// poster, mapping between usecase types.
type posterAdapter struct {
	poster *usecasegithub.ReviewPoster
}

// Submit implements review.Poster.
func (a *posterAdapter) Submit(ctx context.Context, req review.SubmitRequest) (review.SubmitResult, error) {
	result, err := a.poster.PostReview(ctx, usecasegithub.PostRequest{
		Owner:      req.Owner,
		Repo:       req.Repo,
		PullNumber: req.PullNumber,
		Batch:      req.Batch,
	})
	if err != nil {
		return review.SubmitResult{}, err
	}
	return review.SubmitResult{
		ReviewID:       result.ReviewID,
		CommentsPosted: result.CommentsPosted,
	}, nil
}
