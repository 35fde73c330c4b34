package intent

import (
	"context"
	"fmt"
	"strings"
)

// Backend is an optional probabilistic classifier capability. The phrase
// cascade in Classifier covers for it whenever it is absent or failing.
type Backend interface {
	Predict(ctx context.Context, utterance string, labels []Label) (Label, error)
}

// Config controls backend construction.
type Config struct {
	Mode string
	URL  string
}

// NewBackend selects a backend once at startup. Mode "none" (and "auto"
// without a URL) yields no backend, which is a supported configuration:
// the classifier then runs on its deterministic cascade alone.
func NewBackend(cfg Config) (Backend, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPBackend(cfg.URL), nil
		}
		return nil, nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, fmt.Errorf("intent backend url is required for http mode")
		}
		return NewHTTPBackend(cfg.URL), nil
	case "mock":
		return NewMockBackend(nil), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported intent backend mode %q", cfg.Mode)
	}
}

// MockBackend returns scripted predictions for tests and local development.
type MockBackend struct {
	predict func(utterance string) (Label, error)
}

func NewMockBackend(predict func(utterance string) (Label, error)) *MockBackend {
	return &MockBackend{predict: predict}
}

func (b *MockBackend) Predict(_ context.Context, utterance string, _ []Label) (Label, error) {
	if b.predict == nil {
		return AnsweringQuestion, nil
	}
	return b.predict(utterance)
}
