package chat

// Config holds the tunable knobs of the resolution pipeline. Threshold
// defaults live in the infra config layer; nothing here is hardcoded brand
// policy.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity for a semantic match.
	SimilarityThreshold float64
	// SynthesisThreshold is the trust bar below which matched answers are
	// rephrased by the synthesizer instead of returned verbatim.
	SynthesisThreshold float64
	// AnswerMaxChars caps synthesized answers, truncating at a word boundary.
	AnswerMaxChars int
	// MaxAnswerTokens bounds the generation call.
	MaxAnswerTokens int
	// MaxMessageChars bounds the inbound user message.
	MaxMessageChars int
	// Temperature for generation calls.
	Temperature float32
	// KnowledgeContext is the brand's approved knowledge base fed to the
	// generic fallback prompt.
	KnowledgeContext string
}
