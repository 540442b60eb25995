package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChangedLines(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  LineSet
	}{
		{
			name:  "empty patch",
			patch: "",
			want:  LineSet{},
		},
		{
			name: "context before additions",
			patch: `@@ -10,3 +20,3 @@
 ctx
+added1
+added2`,
			want: LineSet{21: {}, 22: {}},
		},
		{
			name: "mixed hunk",
			patch: `@@ -1,4 +1,5 @@
 package main
+import "fmt"
 
 func main() {
-	old()
+	new()`,
			want: LineSet{2: {}, 5: {}},
		},
		{
			name: "multiple hunks",
			patch: `@@ -1,2 +1,2 @@
-a
+b
 c
@@ -10,2 +12,3 @@
 x
+y
+z`,
			want: LineSet{1: {}, 13: {}, 14: {}},
		},
		{
			name: "counts omitted in header",
			patch: `@@ -1 +1 @@
-old
+new`,
			want: LineSet{1: {}},
		},
		{
			name: "no additions yields empty set",
			patch: `@@ -4,2 +4,1 @@
 keep
-gone`,
			want: LineSet{},
		},
		{
			name: "no newline marker does not move the cursor",
			patch: `@@ -1 +1 @@
-old
\ No newline at end of file
+new
\ No newline at end of file`,
			want: LineSet{1: {}},
		},
		{
			name: "malformed header skipped without cursor reset",
			patch: `@@ -1,2 +1,2 @@
+a
@@ garbage @@
+b`,
			want: LineSet{1: {}, 2: {}},
		},
		{
			name: "header missing space separators is not a header",
			patch: `@@-1,2+3,2@@
+a`,
			want: LineSet{0: {}},
		},
		{
			name: "addition before any hunk header records line zero",
			patch: `+orphan`,
			want:  LineSet{0: {}},
		},
		{
			name: "header trailing context accepted",
			patch: `@@ -5,2 +8,3 @@ func helper() {
 a
+b
+c`,
			want: LineSet{9: {}, 10: {}},
		},
		{
			name: "deletion-only hunk then addition hunk",
			patch: `@@ -3,2 +3,0 @@
-x
-y
@@ -20,0 +19,1 @@
+w`,
			want: LineSet{19: {}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ChangedLines(tc.patch)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ChangedLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChangedLinesIdempotent(t *testing.T) {
	patch := `@@ -1,3 +1,4 @@
 a
+b
 c
+d`

	first := ChangedLines(patch)
	second := ChangedLines(patch)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated mapping diverged (-first +second):\n%s", diff)
	}
}

func TestChangedLinesMembersRespectHunkStart(t *testing.T) {
	patch := `@@ -40,3 +50,4 @@
 ctx
+one
 more
+two`

	set := ChangedLines(patch)
	for _, line := range set.Lines() {
		if line < 50 {
			t.Errorf("line %d is below the hunk's new start 50", line)
		}
	}
}

func TestLineSetHelpers(t *testing.T) {
	set := ChangedLines(`@@ -1,2 +1,3 @@
 a
+b
+c`)

	if got := set.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if !set.Contains(2) || !set.Contains(3) {
		t.Errorf("Contains() missing expected members in %v", set.Lines())
	}
	if set.Contains(1) {
		t.Error("Contains(1) = true for a context line")
	}
	if diff := cmp.Diff([]int{2, 3}, set.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}
