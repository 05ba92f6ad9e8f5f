package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaflow/aicore/domain"
)

type fakeInvoker struct {
	id    string
	reply string
	err   error
	delay time.Duration

	mu      sync.Mutex
	prompts []string
}

func (f *fakeInvoker) ID() string { return f.id }

func (f *fakeInvoker) Invoke(ctx context.Context, prompt, systemInstruction string) (*domain.Response, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	reply := f.reply
	if reply == "" {
		reply = f.id + " opinion"
	}
	return &domain.Response{Content: reply, ProviderID: f.id}, nil
}

func (f *fakeInvoker) InvokeWithContext(ctx context.Context, prompt string, extra map[string]string) (*domain.Response, error) {
	return f.Invoke(ctx, prompt, "")
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeInvoker) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func TestDispatchExplicitIntentWins(t *testing.T) {
	design := &fakeInvoker{id: "design"}
	logic := &fakeInvoker{id: "logic"}
	d := New(design, logic, domain.IntentDesign, nil)

	// The prompt screams logic, but the explicit intent wins.
	resp, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "la validación de la regla de negocio",
		Intent: domain.IntentDesign,
	})
	require.NoError(t, err)
	assert.Equal(t, "design", resp.ProviderID)
	assert.Equal(t, 1, design.callCount())
	assert.Equal(t, 0, logic.callCount())
}

func TestDispatchRoutesByClassification(t *testing.T) {
	design := &fakeInvoker{id: "design"}
	logic := &fakeInvoker{id: "logic"}
	d := New(design, logic, domain.IntentDesign, nil)

	_, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "el color y el estilo de la pantalla",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, design.callCount())

	_, err = d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "la regla de negocio del presupuesto",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, logic.callCount())
}

func TestDispatchMixedWithoutCollaboration(t *testing.T) {
	design := &fakeInvoker{id: "design"}
	logic := &fakeInvoker{id: "logic"}
	d := New(design, logic, domain.IntentDesign, nil)

	resp, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "hola, necesito ayuda",
	})
	require.NoError(t, err)
	assert.Equal(t, "design", resp.ProviderID)
	assert.Equal(t, 0, logic.callCount())
}

func TestDispatchMixedDefaultConfigurable(t *testing.T) {
	design := &fakeInvoker{id: "design"}
	logic := &fakeInvoker{id: "logic"}
	d := New(design, logic, domain.IntentLogic, nil)

	resp, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "hola, necesito ayuda",
	})
	require.NoError(t, err)
	assert.Equal(t, "logic", resp.ProviderID)
	assert.Equal(t, 0, design.callCount())
}

func TestDispatchCollaborative(t *testing.T) {
	design := &fakeInvoker{id: "design", reply: "usar un botón más visible"}
	logic := &fakeInvoker{id: "logic", reply: "validar el campo antes de enviar"}
	d := New(design, logic, domain.IntentDesign, nil)

	resp, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt:      "hola, necesito ayuda",
		Collaborate: true,
	})
	require.NoError(t, err)

	// Final decision comes from the logic adapter's synthesis call.
	assert.Equal(t, "validar el campo antes de enviar", resp.Content)
	assert.Equal(t, "design", resp.ProviderID)
	assert.Equal(t, "usar un botón más visible", resp.Metadata["opinion_design"])
	assert.Equal(t, "validar el campo antes de enviar", resp.Metadata["opinion_logic"])
	assert.NotEmpty(t, resp.Metadata["reasoning"])

	// One opinion call each, plus the synthesis call on the logic adapter.
	assert.Equal(t, 1, design.callCount())
	assert.Equal(t, 2, logic.callCount())
}

func TestCollaborateSynthesisPromptEmbedsOpinions(t *testing.T) {
	design := &fakeInvoker{id: "design", reply: "opinión de diseño"}
	logic := &fakeInvoker{id: "logic", reply: "opinión de lógica"}
	d := New(design, logic, domain.IntentDesign, nil)

	result, err := d.Collaborate(context.Background(), domain.AssistRequest{
		Prompt: "consulta original del usuario",
	})
	require.NoError(t, err)
	assert.Equal(t, "opinión de diseño", result.OpinionDesign.Content)
	assert.Equal(t, "opinión de lógica", result.OpinionLogic.Content)

	synthesis := logic.lastPrompt()
	assert.Contains(t, synthesis, "consulta original del usuario")
	assert.Contains(t, synthesis, "opinión de diseño")
	assert.Contains(t, synthesis, "opinión de lógica")
}

func TestCollaborateFailFast(t *testing.T) {
	designErr := errors.New("design provider timeout")
	design := &fakeInvoker{id: "design", err: designErr}
	// The logic branch is slow; the design failure must cancel it.
	logic := &fakeInvoker{id: "logic", delay: 5 * time.Second}
	d := New(design, logic, domain.IntentDesign, nil)

	start := time.Now()
	result, err := d.Collaborate(context.Background(), domain.AssistRequest{
		Prompt:      "hola",
		Collaborate: true,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, designErr)
	assert.Less(t, time.Since(start), time.Second, "surviving branch was not cancelled")

	// The logic opinion, even if it would have succeeded, is never used.
	assert.Equal(t, 1, design.callCount())
	assert.Equal(t, 0, logic.callCount())
}

func TestDispatchErrorPropagatesUnmodified(t *testing.T) {
	designErr := errors.New("quota exhausted")
	design := &fakeInvoker{id: "design", err: designErr}
	logic := &fakeInvoker{id: "logic"}
	d := New(design, logic, domain.IntentDesign, nil)

	_, err := d.Dispatch(context.Background(), domain.AssistRequest{
		Prompt: "el color del botón",
	})
	assert.ErrorIs(t, err, designErr)
}
