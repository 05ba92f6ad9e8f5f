// Package provider wraps a single remote language-model capability behind a
// uniform call shape.
package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/internal/adapter/llm"
)

// FallbackContent replaces an empty model output so callers never receive an
// empty answer.
const FallbackContent = "No se pudo generar una respuesta. Por favor intenta reformular tu consulta."

// ChatCaller is the chat-level surface the conversation loop depends on.
type ChatCaller interface {
	ID() string
	Chat(ctx context.Context, messages []llm.ChatMessage, tools []llm.Tool) (*llm.ChatMessage, error)
}

// Adapter gives one remote model capability a uniform call shape. It carries
// the provider id used for routing and observability, a fixed model name, and
// an optional fixed domain system instruction.
type Adapter struct {
	id     string
	model  string
	system string
	client llm.ChatClient
}

// New creates an adapter over the given chat client.
func New(id, model, systemInstruction string, client llm.ChatClient) *Adapter {
	return &Adapter{
		id:     id,
		model:  model,
		system: systemInstruction,
		client: client,
	}
}

// ID returns the provider identifier.
func (a *Adapter) ID() string {
	return a.id
}

// Chat sends the message sequence with optional tool declarations and returns
// the assistant message. All failure modes map to *Error.
func (a *Adapter) Chat(ctx context.Context, messages []llm.ChatMessage, tools []llm.Tool) (*llm.ChatMessage, error) {
	resp, err := a.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return nil, &Error{Provider: a.id, Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, &Error{Provider: a.id, Err: fmt.Errorf("response contained no choices")}
	}
	return resp.Choices[0].Message, nil
}

// Invoke sends a single prompt with an optional system instruction and
// returns the generated text. Empty output is replaced with FallbackContent
// rather than returned as-is.
func (a *Adapter) Invoke(ctx context.Context, prompt, systemInstruction string) (*domain.Response, error) {
	var messages []llm.ChatMessage
	if systemInstruction != "" {
		messages = append(messages, llm.ChatMessage{Role: "system", Content: systemInstruction})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: prompt})

	reply, err := a.Chat(ctx, messages, nil)
	if err != nil {
		return nil, err
	}

	content := reply.Content
	if content == "" {
		content = FallbackContent
	}

	return &domain.Response{
		Content:    content,
		ProviderID: a.id,
	}, nil
}

// InvokeWithContext merges an optional structured context into the prompt
// (serialized and prefixed) and applies the adapter's fixed domain system
// instruction before delegating to Invoke.
func (a *Adapter) InvokeWithContext(ctx context.Context, prompt string, extra map[string]string) (*domain.Response, error) {
	merged := prompt
	if len(extra) > 0 {
		serialized, err := json.Marshal(extra)
		if err != nil {
			return nil, &Error{Provider: a.id, Err: fmt.Errorf("failed to serialize context: %w", err)}
		}
		merged = fmt.Sprintf("Contexto:\n%s\n\nConsulta:\n%s", serialized, prompt)
	}
	return a.Invoke(ctx, merged, a.system)
}

// Ensure Adapter implements ChatCaller.
var _ ChatCaller = (*Adapter)(nil)
