package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/casaflow/aicore/config"
	"github.com/casaflow/aicore/internal/adapter/llm"
	"github.com/casaflow/aicore/internal/conversation"
	"github.com/casaflow/aicore/internal/dispatcher"
	"github.com/casaflow/aicore/internal/logging"
	"github.com/casaflow/aicore/internal/provider"
	"github.com/casaflow/aicore/internal/tools"
	transport "github.com/casaflow/aicore/internal/transport/http"
	"github.com/casaflow/aicore/policy"
	"github.com/casaflow/aicore/store"
)

const designSystemInstruction = "Eres un especialista en diseño y experiencia de usuario para una plataforma inmobiliaria. Responde con recomendaciones concretas de interfaz y usabilidad."

const logicSystemInstruction = "Eres un especialista en lógica de negocio para una plataforma inmobiliaria. Responde con reglas, validaciones y procesos concretos."

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting assistant core",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL))

	// Persistence collaborator
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	// Provider adapters, constructed once and injected down
	designClient := llm.NewChatClient(cfg.DesignProviderURL, cfg.DesignProviderKey, cfg.LLMTimeout)
	logicClient := llm.NewChatClient(cfg.LogicProviderURL, cfg.LogicProviderKey, cfg.LLMTimeout)

	designAdapter := provider.New(cfg.DesignProviderID, cfg.DesignModel, designSystemInstruction, designClient)
	logicAdapter := provider.New(cfg.LogicProviderID, cfg.LogicModel, logicSystemInstruction, logicClient)

	disp := dispatcher.New(designAdapter, logicAdapter, cfg.MixedDefault, logger)

	// Tool registry and domain functions
	registry := tools.NewRegistry()
	propertyTools := tools.NewPropertyTools(db, logger)
	if err := propertyTools.RegisterAll(registry); err != nil {
		logger.Fatal("failed to register tools", zap.Error(err))
	}

	// Policy gate
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	loop := conversation.NewLoop(logicAdapter, registry, policyEngine, logger)

	// HTTP surface
	handler := transport.NewHandler(disp, loop, logger)
	server := transport.NewServer(handler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
