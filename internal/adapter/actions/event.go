// Package actions adapts the GitHub Actions execution surface: the event
// payload that triggered the workflow and the per-job step summary file.
package actions

import (
	"encoding/json"
	"fmt"
	"os"
)

// eventPayload is the subset of the Actions event document the pipeline
// needs. PullRequest is a pointer so a missing object is distinguishable
// from a pull request numbered zero.
type eventPayload struct {
	PullRequest *struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Number int `json:"number"`
}

// ReadPullRequestNumber parses the event payload file at path and extracts
// the pull request number. ok is false when the payload does not describe a
// pull request; callers treat that as an unsupported trigger, not an error.
func ReadPullRequestNumber(path string) (number int, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("read event payload: %w", err)
	}
	return ParsePullRequestNumber(data)
}

// ParsePullRequestNumber extracts the pull request number from raw event
// payload JSON. pull_request events carry the number inside the
// pull_request object; some deliveries place it at the top level instead.
func ParsePullRequestNumber(data []byte) (number int, ok bool, err error) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, false, fmt.Errorf("parse event payload: %w", err)
	}
	if payload.PullRequest == nil {
		return 0, false, nil
	}
	if payload.PullRequest.Number > 0 {
		return payload.PullRequest.Number, true, nil
	}
	if payload.Number > 0 {
		return payload.Number, true, nil
	}
	return 0, false, nil
}
