// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reasoner is the boundary to the language model. A Reasoner takes
// a system instruction, the tools on offer, and the conversation so far,
// and answers with text or a single tool invocation. The package also
// holds the pieces built on that boundary: the finding classifier, the
// bounded tool loop (Agent), and the synthesizer.
package reasoner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/pkg/types"
)

// Conversation roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
	RoleTool  = "tool"
)

// ErrEmptyResponse is returned when the model produced neither text nor a tool call.
var ErrEmptyResponse = errors.New("reasoner returned an empty response")

// ToolSpec describes a tool offered to the model.
type ToolSpec struct {
	Name        string
	Description string
	Schema      tools.Schema
}

// SpecsFrom lists the capabilities of reg as tool specs.
func SpecsFrom(reg *tools.Registry) []ToolSpec {
	if reg == nil {
		return nil
	}
	var specs []ToolSpec
	for _, c := range reg.All() {
		specs = append(specs, ToolSpec{Name: c.Name(), Description: c.Description(), Schema: c.Schema()})
	}
	return specs
}

// ToolInvocation is a tool call requested by the model.
type ToolInvocation struct {
	ID        string         `json:"id,omitempty"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolOutcome is the answer to a ToolInvocation fed back to the model.
type ToolOutcome struct {
	ID       string
	ToolName string
	Output   map[string]any
}

// Message is one entry of the conversation state. Exactly one of Text,
// Call, or Outcome is set.
type Message struct {
	Role    string
	Text    string
	Call    *ToolInvocation
	Outcome *ToolOutcome
}

// FromTurns converts prior conversation turns into messages. Roles other
// than user collapse to model.
func FromTurns(turns []types.Turn) []Message {
	msgs := make([]Message, 0, len(turns))
	for _, t := range turns {
		role := RoleModel
		if t.Role == RoleUser {
			role = RoleUser
		}
		msgs = append(msgs, Message{Role: role, Text: t.Text})
	}
	return msgs
}

// Request is one call across the boundary.
type Request struct {
	// Model overrides the reasoner's default model when set.
	Model string

	SystemInstruction string
	Tools             []ToolSpec
	Conversation      []Message

	// JSON asks the model for a JSON-only answer.
	JSON bool
}

// Response is the model's answer: text, or a tool invocation.
type Response struct {
	Text           string
	ToolInvocation *ToolInvocation
}

// Reasoner generates a response for a request.
type Reasoner interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls r with exponential backoff between attempts.
func callWithRetry(ctx context.Context, r Reasoner, req Request, maxRetries int) (Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Response{}, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err := r.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return Response{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// New builds the reasoner selected by cfg. It returns nil and no error
// when no API key is configured, leaving callers on their deterministic
// paths.
func New(ctx context.Context, cfg types.ReasonerConfig) (Reasoner, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "", "gemini":
		g, err := NewGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "anthropic":
		return NewAnthropic(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unknown reasoner provider %q", cfg.Provider)
	}
}
