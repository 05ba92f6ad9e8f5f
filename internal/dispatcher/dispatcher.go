// Package dispatcher routes assistance requests to the right provider
// adapter and owns the collaboration protocol for mixed requests.
package dispatcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/internal/classifier"
)

// Invoker is the adapter surface the dispatcher routes to.
type Invoker interface {
	ID() string
	Invoke(ctx context.Context, prompt, systemInstruction string) (*domain.Response, error)
	InvokeWithContext(ctx context.Context, prompt string, extra map[string]string) (*domain.Response, error)
}

// Dispatcher selects and invokes the correct adapter for a request. It
// performs no retries and no fallback substitution: adapter failures
// propagate unmodified to the caller.
type Dispatcher struct {
	design       Invoker
	logic        Invoker
	mixedDefault domain.Intent
	log          *zap.Logger
}

// New creates a dispatcher over the two profile adapters. mixedDefault
// selects the adapter used for mixed intent without collaboration.
func New(design, logic Invoker, mixedDefault domain.Intent, log *zap.Logger) *Dispatcher {
	if mixedDefault != domain.IntentLogic {
		mixedDefault = domain.IntentDesign
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		design:       design,
		logic:        logic,
		mixedDefault: mixedDefault,
		log:          log,
	}
}

// Dispatch resolves the effective intent and routes the request. An explicit
// intent on the request always wins over classification.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.AssistRequest) (*domain.Response, error) {
	intent := req.Intent
	if intent == "" {
		intent = classifier.Classify(req.Prompt)
	}

	d.log.Debug("dispatching request",
		zap.String("intent", string(intent)),
		zap.Bool("collaborate", req.Collaborate))

	switch intent {
	case domain.IntentDesign:
		return d.design.InvokeWithContext(ctx, req.Prompt, req.Context)
	case domain.IntentLogic:
		return d.logic.InvokeWithContext(ctx, req.Prompt, req.Context)
	}

	if !req.Collaborate {
		adapter := d.design
		if d.mixedDefault == domain.IntentLogic {
			adapter = d.logic
		}
		return adapter.InvokeWithContext(ctx, req.Prompt, req.Context)
	}

	result, err := d.Collaborate(ctx, req)
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		Content:    result.FinalDecision,
		ProviderID: d.design.ID(),
		Metadata: map[string]string{
			"opinion_design": result.OpinionDesign.Content,
			"opinion_logic":  result.OpinionLogic.Content,
			"reasoning":      result.Reasoning,
		},
	}, nil
}
