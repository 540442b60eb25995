package github

import "github.com/diffsentry/diffsentry/internal/domain"

// BuildReviewComments converts accepted comments to GitHub review
// comments anchored to the new side of the diff. This function is pure
// and does not modify the input.
func BuildReviewComments(comments []domain.AcceptedComment) []ReviewComment {
	out := make([]ReviewComment, 0, len(comments))

	for _, c := range comments {
		out = append(out, ReviewComment{
			Path: c.Path,
			Line: c.Line,
			Side: SideRight,
			Body: c.Body,
		})
	}

	return out
}
