// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/da-research/internal/tools"
	"github.com/pdiddy/da-research/pkg/types"
)

// Gemini implements Reasoner with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini reasoner.
func NewGemini(ctx context.Context, cfg types.ReasonerConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = types.DefaultReasonerModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Client exposes the underlying client for other Gemini-backed components.
func (g *Gemini) Client() *genai.Client { return g.client }

// Model returns the model identifier.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	contents, err := toContents(req.Conversation)
	if err != nil {
		return Response{}, err
	}

	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}
	if req.JSON && len(req.Tools) == 0 {
		cfg.ResponseMIMEType = "application/json"
	}

	model := g.model
	if req.Model != "" {
		model = req.Model
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return fromGenAI(resp)
}

func fromGenAI(resp *genai.GenerateContentResponse) (Response, error) {
	if resp == nil {
		return Response{}, ErrEmptyResponse
	}
	if calls := resp.FunctionCalls(); len(calls) > 0 {
		c := calls[0]
		return Response{ToolInvocation: &ToolInvocation{ID: c.ID, ToolName: c.Name, Arguments: c.Args}}, nil
	}
	text := resp.Text()
	if text == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{Text: text}, nil
}

func toContents(msgs []Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch {
		case m.Call != nil:
			part := genai.NewPartFromFunctionCall(m.Call.ToolName, m.Call.Arguments)
			part.FunctionCall.ID = m.Call.ID
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleModel))
		case m.Outcome != nil:
			part := genai.NewPartFromFunctionResponse(m.Outcome.ToolName, m.Outcome.Output)
			part.FunctionResponse.ID = m.Outcome.ID
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		case m.Role == RoleModel:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleModel))
		case m.Role == RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	return contents, nil
}

func toDeclarations(specs []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  toSchema(s.Schema),
		})
	}
	return decls
}

func toSchema(s tools.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for name, p := range s.Properties {
		ps := &genai.Schema{Type: schemaType(p.Type), Description: p.Description}
		if p.Items != nil {
			ps.Items = &genai.Schema{Type: schemaType(p.Items.Type)}
		}
		props[name] = ps
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: s.Required}
}

func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeObject
	}
}

// OutputMap converts a tool result into the object form function
// responses require. Non-object outputs are wrapped under "output".
func OutputMap(res tools.Result) map[string]any {
	if !res.OK() {
		return map[string]any{"error": res.Error}
	}
	data, err := json.Marshal(res.Output)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("encoding tool output: %v", err)}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err == nil && m != nil {
		return m
	}
	var v any
	json.Unmarshal(data, &v)
	return map[string]any{"output": v}
}
