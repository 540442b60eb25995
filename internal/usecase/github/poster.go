// Package github provides the use case for submitting a finished review
// batch to a GitHub pull request.
package github

import (
	"context"

	"github.com/diffsentry/diffsentry/internal/adapter/github"
	"github.com/diffsentry/diffsentry/internal/domain"
)

// ReviewClient defines the GitHub operations the poster needs.
// This interface allows for mocking in tests.
type ReviewClient interface {
	CreateReview(ctx context.Context, input github.CreateReviewInput) (*github.CreateReviewResponse, error)
}

// ReviewPoster submits accepted review comments to a pull request as one
// grouped review. The disposition is always COMMENT: the review never
// approves or requests changes regardless of its content.
type ReviewPoster struct {
	client ReviewClient
}

// NewReviewPoster creates a ReviewPoster with the given client.
func NewReviewPoster(client ReviewClient) *ReviewPoster {
	return &ReviewPoster{client: client}
}

// PostRequest identifies the pull request and carries the batch to post.
type PostRequest struct {
	Owner      string
	Repo       string
	PullNumber int
	Batch      domain.ReviewBatch
}

// PostResult reports what GitHub accepted.
type PostResult struct {
	ReviewID       int64
	CommentsPosted int
	HTMLURL        string
}

// PostReview posts the batch anchored to its commit. The caller supplies
// a non-empty batch; skipping empty ones is its decision, not this
// type's.
func (p *ReviewPoster) PostReview(ctx context.Context, req PostRequest) (*PostResult, error) {
	resp, err := p.client.CreateReview(ctx, github.CreateReviewInput{
		Owner:      req.Owner,
		Repo:       req.Repo,
		PullNumber: req.PullNumber,
		CommitSHA:  req.Batch.CommitSHA,
		Event:      github.EventComment,
		Body:       req.Batch.Body,
		Comments:   req.Batch.Comments,
	})
	if err != nil {
		return nil, err
	}

	return &PostResult{
		ReviewID:       resp.ID,
		CommentsPosted: len(req.Batch.Comments),
		HTMLURL:        resp.HTMLURL,
	}, nil
}
