// Package conversation drives the bounded tool-calling exchange between a
// model and the domain tool functions.
package conversation

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/casaflow/aicore/internal/adapter/llm"
	"github.com/casaflow/aicore/internal/provider"
	"github.com/casaflow/aicore/internal/tools"
	"github.com/casaflow/aicore/policy"
)

const systemPrompt = `Eres el asistente virtual de una inmobiliaria. Ayudas a clientes a encontrar propiedades, consultar detalles y agendar visitas.

Usa las herramientas disponibles cuando necesites datos reales: nunca inventes propiedades, precios ni horarios. Si una herramienta falla o no encuentra resultados, explícalo al cliente con amabilidad y ofrece alternativas. Responde siempre en el idioma del cliente.`

// Loop orchestrates one conversation turn: an initial model call with tools
// enabled, sequential execution of any requested invocations, and a final
// model call without tools. Tools are disabled on the final call to force a
// concluding answer, which bounds every turn to at most two model calls.
type Loop struct {
	chat     provider.ChatCaller
	registry *tools.Registry
	policy   *policy.Engine
	log      *zap.Logger
}

// NewLoop creates a conversation loop. The policy engine may be nil, in which
// case every invocation is allowed.
func NewLoop(chat provider.ChatCaller, registry *tools.Registry, pol *policy.Engine, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		chat:     chat,
		registry: registry,
		policy:   pol,
		log:      log,
	}
}

// RunTurn runs one user turn and returns the assistant's reply text. Tool
// level failures are absorbed into the conversation as structured error
// payloads; model call failures propagate to the caller.
func (l *Loop) RunTurn(ctx context.Context, tenantID, userMessage string, history []llm.ChatMessage) (string, error) {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})

	reply, err := l.chat.Chat(ctx, messages, l.registry.Declarations())
	if err != nil {
		return "", err
	}

	if len(reply.ToolCalls) == 0 {
		return replyContent(reply), nil
	}

	// The assistant message, invocation list included, joins the sequence
	// before any results do.
	messages = append(messages, *reply)

	for _, tc := range reply.ToolCalls {
		payload := l.executeToolCall(ctx, tenantID, tc)
		messages = append(messages, llm.ChatMessage{
			Role:       "tool",
			Content:    string(payload),
			ToolCallID: tc.ID,
		})
	}

	final, err := l.chat.Chat(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	return replyContent(final), nil
}

// executeToolCall resolves one invocation to a JSON payload. Unknown
// functions, policy blocks, and executor failures all yield structured error
// payloads so the model can react; none of them abort the turn.
func (l *Loop) executeToolCall(ctx context.Context, tenantID string, tc llm.ToolCall) json.RawMessage {
	name := tc.Function.Name
	args := json.RawMessage(tc.Function.Arguments)

	if l.policy != nil {
		input := map[string]interface{}{
			"tool_name": name,
			"tenant_id": tenantID,
		}
		var argsMap map[string]interface{}
		if len(args) > 0 && json.Unmarshal(args, &argsMap) == nil {
			input["args"] = argsMap
		}

		decision, reason, err := l.policy.Evaluate(ctx, input)
		if err != nil {
			l.log.Warn("policy evaluation failed", zap.String("tool", name), zap.Error(err))
			return errorPayload("policy_error", "no se pudo evaluar la política de la herramienta")
		}
		if decision == "block" {
			l.log.Info("tool invocation blocked by policy",
				zap.String("tool", name), zap.String("reason", reason))
			if reason == "" {
				reason = "la herramienta está deshabilitada para esta sesión"
			}
			return errorPayload("blocked", reason)
		}
	}

	result, err := l.registry.Execute(ctx, name, tenantID, args)
	if err != nil {
		l.log.Warn("tool execution failed", zap.String("tool", name), zap.Error(err))
		return errorPayload("tool_error", err.Error())
	}
	return result
}

func replyContent(msg *llm.ChatMessage) string {
	if msg.Content == "" {
		return provider.FallbackContent
	}
	return msg.Content
}

type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type toolErrorPayload struct {
	Success bool      `json:"success"`
	Error   toolError `json:"error"`
}

func errorPayload(code, message string) json.RawMessage {
	b, _ := json.Marshal(toolErrorPayload{
		Success: false,
		Error:   toolError{Code: code, Message: message},
	})
	return b
}
