// Package git computes local ref-to-ref diffs so changes can be reviewed
// before a pull request exists.
package git

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	formatdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/diffsentry/diffsentry/internal/domain"
)

// Engine computes diffs in a local repository backed by go-git.
type Engine struct {
	repoDir string
}

// NewEngine constructs an engine rooted at repoDir. The directory may be
// anywhere inside the repository; the .git directory is detected upward.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// Diff computes per-file patches between baseRef and targetRef. Patch text
// is normalized to the hunks-only form pull-request file listings return,
// so the rest of the pipeline treats both sources identically. Binary files
// are recorded with an empty patch, again matching the listing behavior.
func (e *Engine) Diff(ctx context.Context, baseRef, targetRef string) (domain.LocalDiff, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return domain.LocalDiff{}, fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return domain.LocalDiff{}, fmt.Errorf("resolve base ref: %w", err)
	}

	targetCommit, err := resolveCommit(repo, targetRef)
	if err != nil {
		return domain.LocalDiff{}, fmt.Errorf("resolve target ref: %w", err)
	}

	patch, err := baseCommit.PatchContext(ctx, targetCommit)
	if err != nil {
		return domain.LocalDiff{}, fmt.Errorf("compute patch: %w", err)
	}

	files := make([]domain.ChangedFile, 0, len(patch.FilePatches()))
	for _, fp := range patch.FilePatches() {
		path, status := pathAndStatus(fp)
		changed := domain.ChangedFile{Filename: path, Status: status}
		if !fp.IsBinary() {
			patchText, err := encodeFilePatch(fp)
			if err != nil {
				return domain.LocalDiff{}, fmt.Errorf("encode patch for %s: %w", path, err)
			}
			changed.Patch = trimToHunks(patchText)
		}
		files = append(files, changed)
	}

	return domain.LocalDiff{
		BaseSHA:   baseCommit.Hash.String(),
		TargetSHA: targetCommit.Hash.String(),
		Files:     files,
	}, nil
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

// pathAndStatus returns the path and status for a file patch. For renamed
// files the path is the new path.
func pathAndStatus(fp formatdiff.FilePatch) (path, status string) {
	from, to := fp.Files()

	switch {
	case from == nil && to != nil:
		return to.Path(), domain.FileStatusAdded
	case from != nil && to == nil:
		return from.Path(), domain.FileStatusRemoved
	case from != nil && to != nil:
		if from.Path() != to.Path() {
			return to.Path(), domain.FileStatusRenamed
		}
		return to.Path(), domain.FileStatusModified
	default:
		return "", domain.FileStatusModified
	}
}

// trimToHunks drops the diff header lines so the patch starts at the first
// hunk. A patch with no hunks (mode-only changes) becomes empty.
func trimToHunks(patchText string) string {
	if strings.HasPrefix(patchText, "@@ ") {
		return patchText
	}
	idx := strings.Index(patchText, "\n@@ ")
	if idx == -1 {
		return ""
	}
	return patchText[idx+1:]
}

func encodeFilePatch(fp formatdiff.FilePatch) (string, error) {
	var buf bytes.Buffer
	encoder := formatdiff.NewUnifiedEncoder(&buf, formatdiff.DefaultContextLines)
	if err := encoder.Encode(singlePatch{fp: fp}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type singlePatch struct {
	fp formatdiff.FilePatch
}

func (s singlePatch) FilePatches() []formatdiff.FilePatch {
	return []formatdiff.FilePatch{s.fp}
}

func (s singlePatch) Message() string {
	return ""
}
