// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"context"
	"errors"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/pkg/types"
)

// ErrStepLimit is returned when the model keeps calling tools past MaxSteps.
var ErrStepLimit = errors.New("tool step limit reached")

const wrapUpPrompt = "The tool budget is exhausted. Answer now using the information gathered so far."

// AgentConfig configures an Agent.
type AgentConfig struct {
	Name        string
	Model       string
	Instruction string

	// MaxSteps bounds tool invocations per run (default 4).
	MaxSteps int
}

// Agent runs a bounded tool-invocation loop: the model either answers or
// calls one tool, whose result is appended to the conversation.
type Agent struct {
	r        Reasoner
	cfg      AgentConfig
	registry *tools.Registry
	log      logging.Logger
}

// NewAgent creates an agent over r offering the capabilities in registry.
// A nil registry offers no tools.
func NewAgent(r Reasoner, cfg AgentConfig, registry *tools.Registry) *Agent {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = types.DefaultReasonerSteps
	}
	if registry == nil {
		registry = tools.NewRegistry(nil)
	}
	return &Agent{r: r, cfg: cfg, registry: registry, log: logging.NewNop()}
}

// WithLogger sets the agent's logger.
func (a *Agent) WithLogger(l logging.Logger) *Agent {
	a.log = logging.OrNop(l).With(logging.String("agent", a.cfg.Name))
	return a
}

// Name returns the configured agent name.
func (a *Agent) Name() string { return a.cfg.Name }

// Step records one tool invocation and its result.
type Step struct {
	Invocation ToolInvocation
	Result     tools.Result
}

// Transcript is the outcome of a run.
type Transcript struct {
	Text  string
	Steps []Step
}

// Run drives the conversation until the model answers in text or the
// step budget runs out, in which case the model is asked once more to
// answer without tools.
func (a *Agent) Run(ctx context.Context, conversation []Message) (Transcript, error) {
	var tr Transcript
	msgs := append([]Message(nil), conversation...)
	specs := SpecsFrom(a.registry)

	for step := 0; step < a.cfg.MaxSteps; step++ {
		resp, err := a.r.Generate(ctx, Request{
			Model:             a.cfg.Model,
			SystemInstruction: a.cfg.Instruction,
			Tools:             specs,
			Conversation:      msgs,
		})
		if err != nil {
			return tr, err
		}
		if resp.ToolInvocation == nil {
			tr.Text = resp.Text
			return tr, nil
		}

		inv := *resp.ToolInvocation
		res := a.registry.Invoke(ctx, inv.ToolName, inv.Arguments)
		a.log.Debug("tool step",
			logging.String("tool", inv.ToolName),
			logging.Int("step", step+1),
			logging.Bool("ok", res.OK()))
		tr.Steps = append(tr.Steps, Step{Invocation: inv, Result: res})
		msgs = append(msgs,
			Message{Role: RoleModel, Call: &inv},
			Message{Role: RoleTool, Outcome: &ToolOutcome{ID: inv.ID, ToolName: inv.ToolName, Output: OutputMap(res)}},
		)
	}

	msgs = append(msgs, Message{Role: RoleUser, Text: wrapUpPrompt})
	resp, err := a.r.Generate(ctx, Request{
		Model:             a.cfg.Model,
		SystemInstruction: a.cfg.Instruction,
		Conversation:      msgs,
	})
	if err != nil {
		return tr, err
	}
	if resp.ToolInvocation != nil {
		return tr, ErrStepLimit
	}
	tr.Text = resp.Text
	return tr, nil
}
