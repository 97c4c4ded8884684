// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/da-research/pkg/types"
)

// Synthesizer writes the final narrative for a run through an Agent, so
// the model may still look things up before answering.
type Synthesizer struct {
	agent *Agent
}

// NewSynthesizer creates a synthesizer driven by agent.
func NewSynthesizer(agent *Agent) *Synthesizer {
	return &Synthesizer{agent: agent}
}

// Synthesize renders the findings into a prompt, appends it to the query's
// history, and returns the agent's answer.
func (s *Synthesizer) Synthesize(ctx context.Context, q types.Query, findings []types.Finding, notes []string) (string, error) {
	prompt, err := renderPrompt(synthesisPromptTmpl, struct {
		Question     string
		Reference    string
		Jurisdiction string
		Findings     []types.Finding
		Notes        []string
	}{q.Text, q.CouncilReference, q.Jurisdiction, findings, notes})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	msgs := append(FromTurns(q.History), Message{Role: RoleUser, Text: prompt})
	tr, err := s.agent.Run(ctx, msgs)
	if err != nil {
		return "", types.WrapFailure(types.FailureBackend, "synthesize", err)
	}
	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", types.WrapFailure(types.FailureBackend, "synthesize", ErrEmptyResponse)
	}
	return text, nil
}
