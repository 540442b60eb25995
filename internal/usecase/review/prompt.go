package review

import "fmt"

// reviewPromptTemplate is the per-file instruction sent to the model.
// The response contract, a bare JSON array of line and message pairs, is
// what the provider-side response parsing expects.
const reviewPromptTemplate = `You are an expert Senior Software Engineer. Your task is to review the following code changes (git diff) for file: %s.

Focus on:
1. Professional code style and formatting.
2. Idiomatic patterns and structures for the language in use.
3. Potential bugs or security issues.
4. Improvements to readability.

Output strictly valid JSON in the following format:
[
  {
    "line": <line_number_in_new_file>,
    "message": "<your_review_comment>"
  }
]

Only provide comments for lines that are ADDED or MODIFIED (lines starting with '+').
If the code looks good or the changes are trivial/safe, return an empty list [].
Do not include markdown formatting like ` + "```json```" + ` in your response, just the raw JSON string.

Diff:
%s`

// BuildPrompt renders the review instruction for one file's patch.
func BuildPrompt(filename, patch string) string {
	return fmt.Sprintf(reviewPromptTemplate, filename, patch)
}
