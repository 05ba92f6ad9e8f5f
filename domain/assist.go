// Package domain defines the core domain models for the assistant.
package domain

// Intent is a coarse classification of what kind of reasoning a request needs.
type Intent string

const (
	// IntentDesign covers design and UX oriented questions.
	IntentDesign Intent = "design"
	// IntentLogic covers business-rule and logic oriented questions.
	IntentLogic Intent = "logic"
	// IntentMixed means neither category dominates.
	IntentMixed Intent = "mixed"
)

// AssistRequest is a single assistance request from the application layer.
// An explicit Intent always wins over classification.
type AssistRequest struct {
	Prompt      string            `json:"prompt"`
	Context     map[string]string `json:"context,omitempty"`
	Intent      Intent            `json:"intent,omitempty"`
	Collaborate bool              `json:"collaborate,omitempty"`
}

// Response is the outcome of exactly one adapter invocation or a synthesis.
// It is never mutated after creation.
type Response struct {
	Content    string            `json:"content"`
	ProviderID string            `json:"provider_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// CollaborativeResult holds both opinions and the merged decision. It exists
// only transiently during a collaborative dispatch and is never persisted.
type CollaborativeResult struct {
	OpinionDesign *Response
	OpinionLogic  *Response
	FinalDecision string
	Reasoning     string
}
