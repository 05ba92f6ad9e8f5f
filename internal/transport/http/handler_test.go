package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/internal/adapter/llm"
	"github.com/casaflow/aicore/internal/conversation"
	"github.com/casaflow/aicore/internal/dispatcher"
	"github.com/casaflow/aicore/internal/provider"
	"github.com/casaflow/aicore/internal/tools"
)

type stubInvoker struct {
	id    string
	reply string
	err   error
}

func (s *stubInvoker) ID() string { return s.id }

func (s *stubInvoker) Invoke(ctx context.Context, prompt, systemInstruction string) (*domain.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Response{Content: s.reply, ProviderID: s.id}, nil
}

func (s *stubInvoker) InvokeWithContext(ctx context.Context, prompt string, extra map[string]string) (*domain.Response, error) {
	return s.Invoke(ctx, prompt, "")
}

type stubChat struct {
	reply string
	err   error
}

func (s *stubChat) ID() string { return "stub" }

func (s *stubChat) Chat(ctx context.Context, messages []llm.ChatMessage, toolDecls []llm.Tool) (*llm.ChatMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatMessage{Role: "assistant", Content: s.reply}, nil
}

func newTestServer(design, logic *stubInvoker, chat *stubChat) *httptest.Server {
	d := dispatcher.New(design, logic, domain.IntentDesign, nil)
	loop := conversation.NewLoop(chat, tools.NewRegistry(), nil, nil)
	h := NewHandler(d, loop, nil)
	return httptest.NewServer(NewServer(h))
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAssistRoutesByClassifiedIntent(t *testing.T) {
	design := &stubInvoker{id: "design", reply: "usa un botón más grande"}
	logic := &stubInvoker{id: "logic", reply: "valida el formulario"}
	srv := newTestServer(design, logic, &stubChat{})
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/v1/assist", `{"prompt":"la validación del formulario falla"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "valida el formulario", body["content"])
	assert.Equal(t, "logic", body["provider_id"])
}

func TestAssistRequiresPrompt(t *testing.T) {
	srv := newTestServer(&stubInvoker{id: "design"}, &stubInvoker{id: "logic"}, &stubChat{})
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/v1/assist", `{"prompt":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "prompt is required", body["error"])
}

func TestAssistProviderFailureMapsToBadGateway(t *testing.T) {
	failing := &stubInvoker{id: "logic", err: &provider.Error{Provider: "logic", Err: context.DeadlineExceeded}}
	srv := newTestServer(&stubInvoker{id: "design"}, failing, &stubChat{})
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/v1/assist", `{"prompt":"la validación del formulario falla"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "could not process request, try again", body["error"])
}

func TestChatTurn(t *testing.T) {
	srv := newTestServer(&stubInvoker{id: "design"}, &stubInvoker{id: "logic"},
		&stubChat{reply: "Claro, con gusto."})
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/v1/chat", `{"tenant_id":"t1","message":"hola"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Claro, con gusto.", body["reply"])
}

func TestChatValidation(t *testing.T) {
	srv := newTestServer(&stubInvoker{id: "design"}, &stubInvoker{id: "logic"}, &stubChat{})
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/v1/chat", `{"message":"hola"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "tenant_id is required", body["error"])

	resp, body = postJSON(t, srv.URL+"/v1/chat", `{"tenant_id":"t1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "message is required", body["error"])
}

func TestIntentEndpoint(t *testing.T) {
	srv := newTestServer(&stubInvoker{id: "design"}, &stubInvoker{id: "logic"}, &stubChat{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/intent?prompt=el%20color%20del%20bot%C3%B3n")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(domain.IntentDesign), body["intent"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubInvoker{id: "design"}, &stubInvoker{id: "logic"}, &stubChat{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
