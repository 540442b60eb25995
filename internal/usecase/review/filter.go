package review

import (
	"github.com/rs/zerolog"

	"github.com/diffsentry/diffsentry/internal/diff"
	"github.com/diffsentry/diffsentry/internal/domain"
)

// FilterCandidates keeps the candidates whose line appears in the file's
// changed-line set and anchors the survivors to path. Each discard is
// logged through logger with the line it referenced, so comments the
// model aimed at unchanged code stay visible in the run log.
func FilterCandidates(logger zerolog.Logger, path string, changed diff.LineSet, candidates []domain.CandidateComment) (accepted []domain.AcceptedComment, discarded int) {
	for _, candidate := range candidates {
		if !changed.Contains(candidate.Line) {
			discarded++
			logger.Info().
				Int("line", candidate.Line).
				Str("reason", "line not part of the diff").
				Msg("skipping comment")
			continue
		}
		accepted = append(accepted, domain.AcceptedComment{
			Path: path,
			Line: candidate.Line,
			Body: candidate.Message,
		})
	}
	return accepted, discarded
}
