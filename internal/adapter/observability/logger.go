// Package observability wires process logging: a zerolog root logger
// configured from the logging config, and the adapter that lets the HTTP
// clients emit through it.
package observability

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/config"
)

// Setup builds the process logger writing to stderr, choosing console
// output when stderr is a terminal and JSON otherwise. Logs go to stderr
// so local-mode review output owns stdout.
func Setup(cfg config.LoggingConfig, runID string) zerolog.Logger {
	return NewLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), cfg, runID)
}

// NewLogger builds a logger writing to w. isTerminal selects console
// formatting when the configured format is auto.
func NewLogger(w io.Writer, isTerminal bool, cfg config.LoggingConfig, runID string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = w
	switch strings.ToLower(cfg.Format) {
	case "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: w}
	default:
		if isTerminal {
			out = zerolog.ConsoleWriter{Out: w}
		}
	}

	logCtx := zerolog.New(out).Level(level).With().Timestamp()
	if runID != "" {
		logCtx = logCtx.Str("run_id", runID)
	}
	return logCtx.Logger()
}

// APILogger adapts zerolog to the llmhttp.Logger interface the Gemini and
// GitHub clients emit through.
type APILogger struct {
	logger zerolog.Logger
}

// NewAPILogger wraps a zerolog logger for the HTTP clients.
func NewAPILogger(logger zerolog.Logger) *APILogger {
	return &APILogger{logger: logger}
}

// LogRequest logs an outgoing API request with the key redacted.
func (l *APILogger) LogRequest(ctx context.Context, req llmhttp.RequestLog) {
	l.logger.Debug().
		Str("provider", req.Provider).
		Str("model", req.Model).
		Int("prompt_chars", req.PromptChars).
		Str("api_key", llmhttp.RedactAPIKey(req.APIKey)).
		Msg("api request")
}

// LogResponse logs an API response with timing and token usage.
func (l *APILogger) LogResponse(ctx context.Context, resp llmhttp.ResponseLog) {
	l.logger.Info().
		Str("provider", resp.Provider).
		Str("model", resp.Model).
		Dur("duration", resp.Duration).
		Int("tokens_in", resp.TokensIn).
		Int("tokens_out", resp.TokensOut).
		Int("status_code", resp.StatusCode).
		Str("finish_reason", resp.FinishReason).
		Msg("api response")
}

// LogError logs a failed API call with its error category.
func (l *APILogger) LogError(ctx context.Context, errLog llmhttp.ErrorLog) {
	l.logger.Error().
		Str("provider", errLog.Provider).
		Str("model", errLog.Model).
		Dur("duration", errLog.Duration).
		Str("error_type", errLog.ErrorType.String()).
		Int("status_code", errLog.StatusCode).
		Bool("retryable", errLog.Retryable).
		Err(errLog.Error).
		Msg("api call failed")
}
