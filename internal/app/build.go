package app

import (
	"context"
	"fmt"

	"github.com/ent0n29/aliya/internal/brain"
	"github.com/ent0n29/aliya/internal/bridge"
	"github.com/ent0n29/aliya/internal/config"
	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/httpapi"
	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/interviews"
	"github.com/ent0n29/aliya/internal/memory"
	"github.com/ent0n29/aliya/internal/observability"
)

type BuildResult struct {
	Config     config.Config
	API        *httpapi.Server
	Registry   *interviews.Manager
	Controller *flow.Controller
	Metrics    *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

// Build wires the whole service from config. The controller, composer and
// classifier backends are selected once here, never re-detected at runtime.
func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	perf := observability.NewDecisionStageWindow(256)

	store, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("memory store init failed: %w", err)
	}

	brainClient, err := brain.NewClient(brain.Config{
		Mode:    cfg.BrainMode,
		HTTPURL: cfg.BrainHTTPURL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("brain client init failed: %w", err)
	}

	backend, err := intent.NewBackend(intent.Config{
		Mode: cfg.IntentBackendMode,
		URL:  cfg.IntentBackendURL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("intent backend init failed: %w", err)
	}
	classifier := intent.NewClassifier(backend)

	composer := bridge.NewComposer(brainClient, cfg.BridgeTimeout)
	composer.SetFallbackHook(func() {
		metrics.BridgeFallbacks.Inc()
	})

	controller := flow.NewController(classifier, composer, nil, cfg.AutoAdvanceMinTurns)

	registry := interviews.NewManager(cfg.InterviewInactivityTimeout)
	registry.SetExpireHook(func(_ *interviews.Interview) {
		metrics.InterviewEvents.WithLabelValues("expired").Inc()
		metrics.ActiveInterviews.Set(float64(registry.ActiveCount()))
	})

	api := httpapi.New(cfg, registry, controller, store, metrics, perf)

	return &BuildResult{
		Config:     cfg,
		API:        api,
		Registry:   registry,
		Controller: controller,
		Metrics:    metrics,
		Cleanup:    store.Close,
	}, nil
}
