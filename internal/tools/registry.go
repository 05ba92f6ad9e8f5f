// Package tools declares the callable domain functions exposed to a model
// during a conversation and executes them on its behalf.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/casaflow/aicore/internal/adapter/llm"
)

// ErrUnknownTool is returned when an invocation names a function that was
// never registered.
var ErrUnknownTool = errors.New("unknown tool")

// ExecutorFunc executes a tool invocation for a tenant. The tenant id must be
// honored before touching any data.
type ExecutorFunc func(ctx context.Context, tenantID string, args json.RawMessage) (json.RawMessage, error)

// Registry stores tool declarations and executors keyed by tool name.
type Registry struct {
	mu           sync.RWMutex
	executors    map[string]ExecutorFunc
	declarations []llm.Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]ExecutorFunc),
	}
}

// Register adds a tool declaration and its executor.
func (r *Registry) Register(name, description string, parameters map[string]interface{}, exec ExecutorFunc) error {
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[name]; exists {
		return fmt.Errorf("executor already registered for %s", name)
	}
	r.executors[name] = exec
	r.declarations = append(r.declarations, llm.Tool{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	})
	return nil
}

// Declarations returns the tool declarations to attach to a model call.
func (r *Registry) Declarations() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]llm.Tool, len(r.declarations))
	copy(decls, r.declarations)
	return decls
}

// Execute runs the executor registered for the tool name.
func (r *Registry) Execute(ctx context.Context, name, tenantID string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	exec := r.executors[name]
	r.mu.RUnlock()
	if exec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return exec(ctx, tenantID, args)
}
