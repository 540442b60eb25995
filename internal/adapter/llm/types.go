package llm

// UsageMetadata captures token usage reported by a model API call.
// This metadata flows alongside the content through the adapter layer.
type UsageMetadata struct {
	TokensIn  int // Input tokens consumed
	TokensOut int // Output tokens generated
}
