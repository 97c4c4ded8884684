// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/da-research/internal/httputil"
	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/pkg/types"
)

// anthropicAPIURL is the Messages API endpoint. Package-level var for test substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

const anthropicMaxTokens = 4096

// Anthropic implements Reasoner with the Anthropic Messages API.
type Anthropic struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewAnthropic creates an Anthropic reasoner. A nil client uses a default
// client with the shared timeout.
func NewAnthropic(cfg types.ReasonerConfig, client *http.Client) *Anthropic {
	if client == nil {
		client = httputil.NewClient(types.HTTPConfig{Timeout: 2 * types.DefaultTimeout})
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = types.DefaultAnthropicModel
	}
	return &Anthropic{APIKey: cfg.APIKey, Model: model, Client: client}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	Input     map[string]any `json:"input,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	Content   string         `json:"content,omitempty"`
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
}

func (a *Anthropic) Generate(ctx context.Context, req Request) (Response, error) {
	model := a.Model
	if req.Model != "" && !strings.HasPrefix(req.Model, "gemini") {
		model = req.Model
	}
	body := anthropicRequest{
		Model:     model,
		MaxTokens: anthropicMaxTokens,
		System:    req.SystemInstruction,
		Messages:  toAnthropicMessages(req.Conversation),
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, anthropicTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schemaMap(t.Schema),
		})
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, a.Client, httpReq, 0)
	if err != nil {
		return Response{}, fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Response{}, fmt.Errorf("anthropic API returned %d: %s", resp.StatusCode, string(msg))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return Response{}, fmt.Errorf("decoding Anthropic response: %w", err)
	}

	var text []string
	for _, block := range aResp.Content {
		switch block.Type {
		case "tool_use":
			return Response{ToolInvocation: &ToolInvocation{ID: block.ID, ToolName: block.Name, Arguments: block.Input}}, nil
		case "text":
			text = append(text, block.Text)
		}
	}
	if len(text) == 0 {
		return Response{}, ErrEmptyResponse
	}
	return Response{Text: strings.Join(text, "\n")}, nil
}

// toAnthropicMessages maps the conversation onto alternating user and
// assistant messages, merging consecutive entries of the same role.
func toAnthropicMessages(msgs []Message) []anthropicMessage {
	var out []anthropicMessage
	push := func(role string, b anthropicBlock) {
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, b)
			return
		}
		out = append(out, anthropicMessage{Role: role, Content: []anthropicBlock{b}})
	}
	for _, m := range msgs {
		switch {
		case m.Call != nil:
			args := m.Call.Arguments
			if args == nil {
				args = map[string]any{}
			}
			push("assistant", anthropicBlock{Type: "tool_use", ID: m.Call.ID, Name: m.Call.ToolName, Input: args})
		case m.Outcome != nil:
			data, _ := json.Marshal(m.Outcome.Output)
			push("user", anthropicBlock{Type: "tool_result", ToolUseID: m.Outcome.ID, Content: string(data)})
		case m.Role == RoleModel:
			push("assistant", anthropicBlock{Type: "text", Text: m.Text})
		default:
			push("user", anthropicBlock{Type: "text", Text: m.Text})
		}
	}
	return out
}

// schemaMap renders s as a JSON schema object.
func schemaMap(s tools.Schema) map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		if p.Items != nil {
			prop["items"] = map[string]any{"type": p.Items.Type}
		}
		props[name] = prop
	}
	required := s.Required
	if required == nil {
		required = []string{}
	}
	return map[string]any{"type": "object", "properties": props, "required": required}
}
