package llm

import "context"

// ChatClient defines the interface for chat completion operations.
type ChatClient interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements ChatClient.
var _ ChatClient = (*Client)(nil)
