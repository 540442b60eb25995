package http

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/diffsentry/diffsentry/internal/domain"
)

// jsonBlockRegex matches a markdown code fence from the first opening
// backticks to the LAST closing backticks. The greedy match keeps nested
// fences inside comment messages from truncating the payload.
var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")

// ExtractJSONFromMarkdown strips a wrapping ```json or ``` fence from
// model output. Text without a fence is returned trimmed, on the
// assumption that it is already raw JSON.
func ExtractJSONFromMarkdown(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

// ParseCandidates turns raw model output into validated candidate
// comments. The output is expected to carry a JSON array of
// {line, message} records, optionally fenced.
//
// Parsing is strict first and repairs second: if the unfenced text does
// not unmarshal, it is run through jsonrepair (trailing commas, single
// quotes, unquoted keys) and parsed again. Failure of both passes is
// returned as an error; the caller decides whether that degrades the file
// or the run.
//
// Validation happens here and nowhere else: an entry survives only with
// an integer line >= 1 and a non-empty message. Entries that fail to
// unmarshal on their own (string line numbers, fractional numbers) are
// dropped individually rather than failing the batch.
func ParseCandidates(text string) ([]domain.CandidateComment, error) {
	jsonText := ExtractJSONFromMarkdown(text)

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &entries); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(jsonText)
		if repairErr != nil {
			return nil, fmt.Errorf("parse review response: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
			return nil, fmt.Errorf("parse repaired review response: %w", err)
		}
	}

	candidates := make([]domain.CandidateComment, 0, len(entries))
	for _, entry := range entries {
		var record struct {
			Line    int    `json:"line"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(entry, &record); err != nil {
			continue
		}
		if record.Line < 1 || strings.TrimSpace(record.Message) == "" {
			continue
		}
		candidates = append(candidates, domain.CandidateComment{
			Line:    record.Line,
			Message: record.Message,
		})
	}

	return candidates, nil
}
