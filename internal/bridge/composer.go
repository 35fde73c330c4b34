package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ent0n29/aliya/internal/brain"
	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/topics"
)

const (
	// bridgeMemoryTurns bounds how much recent conversation is embedded in
	// the transition prompt.
	bridgeMemoryTurns = 3

	defaultComposeTimeout = 10 * time.Second
)

// Composer produces the short transition text spoken when the interview
// moves from one topic to the next. It always returns a usable string:
// brain failures and timeouts degrade to a deterministic fallback.
type Composer struct {
	client     brain.Client
	timeout    time.Duration
	onFallback func()
}

func NewComposer(client brain.Client, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = defaultComposeTimeout
	}
	return &Composer{client: client, timeout: timeout}
}

// SetFallbackHook registers an observer called whenever composition degrades
// to the deterministic fallback.
func (c *Composer) SetFallbackHook(hook func()) {
	c.onFallback = hook
}

func (c *Composer) Compose(ctx context.Context, from, to topics.ID, recent []flow.Turn) string {
	if c.client == nil {
		return c.fallback(from, to)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.client.Complete(ctx, buildPrompt(from, to, recent))
	if err != nil || strings.TrimSpace(text) == "" {
		return c.fallback(from, to)
	}
	return text
}

func (c *Composer) fallback(from, to topics.ID) string {
	if c.onFallback != nil {
		c.onFallback()
	}
	return Fallback(from, to)
}

// Fallback is the deterministic transition used whenever composition fails.
func Fallback(from, to topics.ID) string {
	return fmt.Sprintf("Thank you for that information about %s. Now let's discuss %s.",
		topics.DisplayName(from), topics.DisplayName(to))
}

func buildPrompt(from, to topics.ID, recent []flow.Turn) string {
	if len(recent) > bridgeMemoryTurns {
		recent = recent[len(recent)-bridgeMemoryTurns:]
	}

	var b strings.Builder
	b.WriteString("You are a senior investment banking advisor conducting a professional interview.\n\n")
	fmt.Fprintf(&b, "CONTEXT: You just finished discussing %s and are now transitioning to %s.\n\n",
		topics.DisplayName(from), topics.DisplayName(to))
	if len(recent) > 0 {
		b.WriteString("RECENT CONVERSATION:\n")
		for _, turn := range recent {
			role := "AI"
			if turn.Role == "user" {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, turn.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString("Generate a natural, professional transition that briefly acknowledges " +
		"the previous topic and smoothly introduces the new one. " +
		"Keep the response to 2-3 sentences maximum.")
	return b.String()
}
