package diff

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LineSet holds the new-file line numbers considered changed for one
// file's patch. Membership is the only operation the review pipeline
// performs on it.
type LineSet map[int]struct{}

// Contains reports whether line is a member of the set.
func (s LineSet) Contains(line int) bool {
	_, ok := s[line]
	return ok
}

// Len returns the number of lines in the set.
func (s LineSet) Len() int {
	return len(s)
}

// Lines returns the members in ascending order.
func (s LineSet) Lines() []int {
	lines := make([]int, 0, len(s))
	for line := range s {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// hunkHeaderPattern matches the hunk-header subset that code-hosting
// platforms emit for pull-request file patches. Count suffixes are
// optional and unused; only the new-file start position matters here.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ChangedLines maps a single file's unified-diff patch to the set of
// new-file line numbers that were added or modified.
//
// A cursor tracks the new-file line number, starting at zero. Each hunk
// header resets it to the hunk's new-file start. An added line records
// the cursor then advances it, a context line advances it without
// recording, and a removed line leaves it untouched. Every other line
// (trailing-newline markers, metadata, unrecognized prefixes) is skipped
// without moving the cursor, so a malformed patch desynchronizes silently
// and yields a wrong set rather than an error.
func ChangedLines(patch string) LineSet {
	set := make(LineSet)
	if patch == "" {
		return set
	}

	currentNewLine := 0
	for _, line := range strings.Split(patch, "\n") {
		if m := hunkHeaderPattern.FindStringSubmatch(line); m != nil {
			currentNewLine, _ = strconv.Atoi(m[2])
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			set[currentNewLine] = struct{}{}
			currentNewLine++
		case strings.HasPrefix(line, " "):
			currentNewLine++
		}
	}
	return set
}
