package brain

import (
	"context"
	"fmt"
	"strings"
)

// Client is the opaque knowledge-completion collaborator: one prompt in,
// one text out. Implementations may fail or time out; callers own the
// timeout and the fallback.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config controls client construction.
type Config struct {
	Mode    string
	HTTPURL string
}

func NewClient(cfg Config) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPClient(cfg.HTTPURL), nil
		}
		return NewMockClient(), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, fmt.Errorf("brain HTTP url is required for http mode")
		}
		return NewHTTPClient(cfg.HTTPURL), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported brain mode %q", cfg.Mode)
	}
}
