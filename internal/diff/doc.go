// Package diff maps unified-diff patches to the set of new-file line
// numbers eligible for review comments.
//
// Only the hunk-header subset that code-hosting platforms emit for
// pull-request file patches is understood. The mapper is lenient: lines
// it does not recognize are skipped without advancing the line cursor,
// so a malformed patch degrades to a wrong answer instead of an error.
package diff
