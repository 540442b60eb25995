package domain

// File change statuses reported for pull-request files. The local diff
// engine normalizes go-git statuses to the same vocabulary so the skip
// rules behave identically in both modes.
const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusRemoved  = "removed"
	FileStatusRenamed  = "renamed"
)

// PullRequest identifies the pull request under review.
type PullRequest struct {
	Number  int
	Title   string
	HeadSHA string
}

// ChangedFile is a single file entry from a pull-request diff. Patch is
// empty for binary files and for files the platform declined to diff.
type ChangedFile struct {
	Filename string
	Status   string
	Patch    string
}

// CandidateComment is an unfiltered comment proposal from the AI review
// step. Line refers to the new version of the file and is not trusted to
// reference a changed line until filtered.
type CandidateComment struct {
	Line    int
	Message string
}

// AcceptedComment is a candidate that survived the changed-line filter,
// anchored to its file path. Accepted comments always target the new-file
// side of the diff.
type AcceptedComment struct {
	Path string
	Line int
	Body string
}

// ReviewBatch is the single grouped review submission for a run.
type ReviewBatch struct {
	CommitSHA string
	Body      string
	Comments  []AcceptedComment
}

// LocalDiff is the result of diffing two refs in a local repository.
type LocalDiff struct {
	BaseSHA   string
	TargetSHA string
	Files     []ChangedFile
}

// RunReport accumulates per-run counters for logging and the step summary.
type RunReport struct {
	FilesExamined     int
	FilesSkipped      int
	FilesReviewed     int
	CandidatesSeen    int
	CommentsAccepted  int
	CommentsDiscarded int
	Submitted         bool
}

// ReportArtifact captures the inputs for the local-mode markdown report.
// Files supplies the status shown next to each commented file.
type ReportArtifact struct {
	OutputPath string
	Repository string
	BaseRef    string
	TargetRef  string
	Files      []ChangedFile
	Comments   []AcceptedComment
	Report     RunReport
}
