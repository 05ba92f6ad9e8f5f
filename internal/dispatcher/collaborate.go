package dispatcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/casaflow/aicore/domain"
)

// mergeReasoning is the fixed label attached to every collaborative result.
const mergeReasoning = "Síntesis de dos perspectivas: diseño/UX y lógica de negocio."

const synthesisSystem = "Eres un revisor senior que combina dos opiniones de especialistas en una sola decisión accionable."

// Collaborate runs both adapters concurrently on the identical prompt and
// context, then reconciles their opinions with a third call to the logic
// adapter. The fan-out is fail-fast: if either branch fails, the whole
// operation fails and no partial result is ever returned.
func (d *Dispatcher) Collaborate(ctx context.Context, req domain.AssistRequest) (*domain.CollaborativeResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	var opinionDesign, opinionLogic *domain.Response

	g.Go(func() error {
		resp, err := d.design.InvokeWithContext(gctx, req.Prompt, req.Context)
		if err != nil {
			return err
		}
		opinionDesign = resp
		return nil
	})
	g.Go(func() error {
		resp, err := d.logic.InvokeWithContext(gctx, req.Prompt, req.Context)
		if err != nil {
			return err
		}
		opinionLogic = resp
		return nil
	})

	// The derived context cancels the surviving branch on first error.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	synthesisPrompt := buildSynthesisPrompt(req.Prompt, opinionDesign, opinionLogic)

	// Synthesis is itself a business-reasoning task, so the logic adapter
	// produces the final decision.
	final, err := d.logic.Invoke(ctx, synthesisPrompt, synthesisSystem)
	if err != nil {
		return nil, err
	}

	d.log.Debug("collaboration completed",
		zap.String("design_provider", opinionDesign.ProviderID),
		zap.String("logic_provider", opinionLogic.ProviderID))

	return &domain.CollaborativeResult{
		OpinionDesign: opinionDesign,
		OpinionLogic:  opinionLogic,
		FinalDecision: final.Content,
		Reasoning:     mergeReasoning,
	}, nil
}

func buildSynthesisPrompt(query string, design, logic *domain.Response) string {
	return fmt.Sprintf(`Consulta original:
%s

Opinión del especialista en diseño/UX (%s):
%s

Opinión del especialista en lógica de negocio (%s):
%s

Instrucciones:
1. Combina lo mejor de ambas opiniones.
2. Resuelve explícitamente cualquier contradicción entre ellas.
3. Produce una recomendación accionable.`,
		query, design.ProviderID, design.Content, logic.ProviderID, logic.Content)
}
