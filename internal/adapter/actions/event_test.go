package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffsentry/diffsentry/internal/adapter/actions"
)

func TestParsePullRequestNumber(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantNumber int
		wantOK     bool
	}{
		{
			name:       "pull_request event",
			payload:    `{"action": "opened", "pull_request": {"number": 42, "title": "Add feature"}}`,
			wantNumber: 42,
			wantOK:     true,
		},
		{
			name:       "top-level number fallback",
			payload:    `{"number": 7, "pull_request": {"state": "open"}}`,
			wantNumber: 7,
			wantOK:     true,
		},
		{
			name:    "push event",
			payload: `{"ref": "refs/heads/main", "commits": []}`,
			wantOK:  false,
		},
		{
			name:    "issue_comment event",
			payload: `{"action": "created", "issue": {"number": 9}}`,
			wantOK:  false,
		},
		{
			name:    "pull_request object without any number",
			payload: `{"pull_request": {"state": "open"}}`,
			wantOK:  false,
		},
		{
			name:    "empty object",
			payload: `{}`,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, ok, err := actions.ParsePullRequestNumber([]byte(tt.payload))

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantNumber, number)
		})
	}
}

func TestParsePullRequestNumber_MalformedJSON(t *testing.T) {
	_, _, err := actions.ParsePullRequestNumber([]byte(`{"pull_request":`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse event payload")
}

func TestReadPullRequestNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pull_request": {"number": 123}}`), 0o644))

	number, ok, err := actions.ReadPullRequestNumber(path)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 123, number)
}

func TestReadPullRequestNumber_MissingFile(t *testing.T) {
	_, _, err := actions.ReadPullRequestNumber(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read event payload")
}
