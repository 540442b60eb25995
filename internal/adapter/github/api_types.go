package github

// GitHub Pull Request API types.
// See: https://docs.github.com/en/rest/pulls/reviews#create-a-review-for-a-pull-request

// ReviewEvent represents the action to take when submitting a review.
type ReviewEvent string

const (
	// EventComment submits the review without approval.
	EventComment ReviewEvent = "COMMENT"

	// EventApprove approves the pull request.
	EventApprove ReviewEvent = "APPROVE"

	// EventRequestChanges requests changes to the pull request.
	EventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// CommentSide identifies which side of the split diff a comment anchors to.
type CommentSide string

const (
	// SideRight anchors a comment to the new version of the file.
	SideRight CommentSide = "RIGHT"

	// SideLeft anchors a comment to the old version of the file.
	SideLeft CommentSide = "LEFT"
)

// PullRequestResponse is the subset of GET /repos/{owner}/{repo}/pulls/{pull_number}
// that we consume.
type PullRequestResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	Head   Branch `json:"head"`
	Base   Branch `json:"base"`
}

// Branch identifies a ref and its current head commit.
type Branch struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// CommitResponse is one entry of GET .../pulls/{pull_number}/commits.
type CommitResponse struct {
	SHA string `json:"sha"`
}

// FileResponse is one entry of GET .../pulls/{pull_number}/files.
// Patch is empty for binary files and for files GitHub deems too large
// to inline.
type FileResponse struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch"`
}

// CreateReviewRequest is the request body for POST /repos/{owner}/{repo}/pulls/{pull_number}/reviews.
type CreateReviewRequest struct {
	// CommitID is the SHA of the commit to anchor the review to.
	CommitID string `json:"commit_id"`

	// Event is the review action: APPROVE, REQUEST_CHANGES, or COMMENT.
	Event ReviewEvent `json:"event"`

	// Body is the review summary comment.
	Body string `json:"body"`

	// Comments are the inline review comments.
	Comments []ReviewComment `json:"comments,omitempty"`
}

// ReviewComment represents an inline comment on a specific line.
type ReviewComment struct {
	// Path is the relative path of the file to comment on.
	Path string `json:"path"`

	// Line is the line number in the new version of the file.
	Line int `json:"line"`

	// Side selects the diff side the line number refers to.
	Side CommentSide `json:"side"`

	// Body is the comment text (supports GitHub-flavored Markdown).
	Body string `json:"body"`
}

// CreateReviewResponse is the response from POST /repos/{owner}/{repo}/pulls/{pull_number}/reviews.
type CreateReviewResponse struct {
	ID          int64  `json:"id"`
	NodeID      string `json:"node_id"`
	User        User   `json:"user"`
	Body        string `json:"body"`
	State       string `json:"state"` // PENDING, APPROVED, CHANGES_REQUESTED, COMMENTED, DISMISSED
	HTMLURL     string `json:"html_url"`
	SubmittedAt string `json:"submitted_at"`
}

// User represents a GitHub user in the response.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"` // "User" or "Bot"
}

// GitHubErrorResponse represents an error response from the GitHub API.
type GitHubErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
