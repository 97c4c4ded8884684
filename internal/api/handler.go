// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes research runs over HTTP.
package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// Runner executes a research run. *coordinator.Coordinator satisfies it.
type Runner interface {
	Run(ctx context.Context, q types.Query) (types.ResearchResult, error)
}

// GenerateRequest is the body of POST /api/agent/generate.
type GenerateRequest struct {
	Prompt           string       `json:"prompt"`
	History          []types.Turn `json:"history"`
	CouncilReference string       `json:"councilReference"`
	Jurisdiction     string       `json:"jurisdiction"`
}

// GenerateResponse is the reply of POST /api/agent/generate.
type GenerateResponse struct {
	Success         bool              `json:"success"`
	Text            string            `json:"text"`
	Sources         []types.SourceRef `json:"sources"`
	Findings        []types.Finding   `json:"findings,omitempty"`
	PartialFailures []string          `json:"partialFailures,omitempty"`
	RequestID       string            `json:"requestId,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// Handler serves the agent endpoints.
type Handler struct {
	runner Runner
	log    logging.Logger
}

// NewHandler creates a handler around runner.
func NewHandler(runner Runner, log logging.Logger) *Handler {
	return &Handler{runner: runner, log: logging.OrNop(log)}
}

// Health handles GET /api/agent/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Agent API is running"})
}

// Generate handles POST /api/agent/generate.
func (h *Handler) Generate(c *gin.Context) {
	requestID := c.GetString(requestIDKey)

	var req GenerateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, GenerateResponse{Text: "Invalid request body", Error: bindErr.Error(), RequestID: requestID})
		return
	}

	q := QueryFromRequest(req)
	if !q.HasText() && !q.HasReference() {
		c.JSON(http.StatusBadRequest, GenerateResponse{Text: "Prompt is required", Error: "No prompt provided", RequestID: requestID})
		return
	}

	res, runErr := h.runner.Run(c.Request.Context(), q)
	if runErr != nil {
		c.Error(runErr)
		status := http.StatusInternalServerError
		if types.IsKind(runErr, types.FailureMissingInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, GenerateResponse{Text: "Error processing request: " + runErr.Error(), Error: runErr.Error(), RequestID: requestID})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Success:         true,
		Text:            res.Synthesis,
		Sources:         sourcesOrEmpty(res.Sources()),
		Findings:        res.Findings,
		PartialFailures: res.PartialFailures,
		RequestID:       requestID,
	})
}

func sourcesOrEmpty(s []types.SourceRef) []types.SourceRef {
	if s == nil {
		return []types.SourceRef{}
	}
	return s
}

var (
	referencePattern    = regexp.MustCompile(`(?i)\b(?:council\s+reference|DA\s+number|application\s+number)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9/\-.]*[A-Za-z0-9])`)
	jurisdictionPattern = regexp.MustCompile(`(?i)\b(?:LGA|jurisdiction|council)\s*:\s*([A-Za-z]+)`)
)

// QueryFromRequest builds a query from req. When the body carries no
// council reference or jurisdiction, they are read from the prompt.
func QueryFromRequest(req GenerateRequest) types.Query {
	q := types.Query{
		Text:             strings.TrimSpace(req.Prompt),
		CouncilReference: strings.TrimSpace(req.CouncilReference),
		Jurisdiction:     strings.TrimSpace(req.Jurisdiction),
		History:          req.History,
	}
	if q.CouncilReference == "" {
		if m := referencePattern.FindStringSubmatch(q.Text); m != nil {
			q.CouncilReference = m[1]
		}
	}
	if q.Jurisdiction == "" {
		if m := jurisdictionPattern.FindStringSubmatch(q.Text); m != nil {
			q.Jurisdiction = strings.TrimSpace(m[1])
		}
	}
	return q
}
