package brain

import (
	"context"
	"strings"
)

// MockClient provides deterministic local completions when no real brain
// endpoint is configured.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	// Echo enough of the prompt to make transitions recognizable in dev.
	first := prompt
	if idx := strings.IndexByte(first, '\n'); idx >= 0 {
		first = first[:idx]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "Let's keep going.", nil
	}
	return "Understood. " + first, nil
}
