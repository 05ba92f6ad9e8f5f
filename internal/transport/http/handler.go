// Package http exposes the assistant core over a thin HTTP surface.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/casaflow/aicore/domain"
	"github.com/casaflow/aicore/internal/adapter/llm"
	"github.com/casaflow/aicore/internal/classifier"
	"github.com/casaflow/aicore/internal/conversation"
	"github.com/casaflow/aicore/internal/dispatcher"
	"github.com/casaflow/aicore/internal/provider"
)

// Handler handles HTTP requests for the assistant endpoints.
type Handler struct {
	dispatcher *dispatcher.Dispatcher
	loop       *conversation.Loop
	log        *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(d *dispatcher.Dispatcher, loop *conversation.Loop, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		dispatcher: d,
		loop:       loop,
		log:        log,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/assist", h.Assist)
	e.POST("/v1/chat", h.Chat)
	e.GET("/v1/intent", h.Intent)
	e.GET("/healthz", h.Health)
}

// Assist dispatches a single assistance request.
// POST /v1/assist
func (h *Handler) Assist(c echo.Context) error {
	var req domain.AssistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	}

	resp, err := h.dispatcher.Dispatch(c.Request().Context(), req)
	if err != nil {
		return h.providerFailure(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ChatRequest is the body of a conversation turn.
type ChatRequest struct {
	TenantID string            `json:"tenant_id"`
	Message  string            `json:"message"`
	History  []llm.ChatMessage `json:"history,omitempty"`
}

// Chat runs one tool-calling conversation turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.TenantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "tenant_id is required"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reply, err := h.loop.RunTurn(c.Request().Context(), req.TenantID, req.Message, req.History)
	if err != nil {
		return h.providerFailure(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

// Intent classifies a prompt without dispatching it.
// GET /v1/intent?prompt=...
func (h *Handler) Intent(c echo.Context) error {
	prompt := c.QueryParam("prompt")
	return c.JSON(http.StatusOK, map[string]string{
		"intent": string(classifier.Classify(prompt)),
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// providerFailure maps provider errors to a generic upstream failure so raw
// provider detail never reaches the end user.
func (h *Handler) providerFailure(c echo.Context, err error) error {
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		h.log.Error("provider call failed",
			zap.String("provider", provErr.Provider), zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "could not process request, try again",
		})
	}
	h.log.Error("request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}
