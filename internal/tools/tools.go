// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools exposes the retrieval components as named capabilities
// that a reasoner can discover through an explicit Registry and invoke
// with JSON-shaped arguments.
package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// Property describes a single argument.
type Property struct {
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Items       *PropertyItems `json:"items,omitempty"`
}

// PropertyItems describes the element type of an array argument.
type PropertyItems struct {
	Type string `json:"type"`
}

// Schema describes the arguments a capability accepts.
type Schema struct {
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

// Capability is a tool the reasoner may call.
type Capability interface {
	Name() string
	Description() string
	Schema() Schema

	// Invoke runs the tool. The output must be JSON-serialisable.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Result is the tagged outcome of one invocation: Output on success,
// Failure otherwise.
type Result struct {
	Tool     string         `json:"tool"`
	Output   any            `json:"output,omitempty"`
	Failure  *types.Failure `json:"-"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"-"`
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Registry holds the capabilities offered to a reasoner, in registration
// order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Capability
	log   logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logging.Logger) *Registry {
	return &Registry{tools: make(map[string]Capability), log: logging.OrNop(log)}
}

// Register adds c. Names must be unique.
func (r *Registry) Register(c Capability) error {
	if c.Name() == "" {
		return ErrToolNameEmpty
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[c.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, c.Name())
	}
	r.tools[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// MustRegister registers c and panics on error.
func (r *Registry) MustRegister(c Capability) {
	if err := r.Register(c); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", c.Name(), err))
	}
}

// Get returns the named capability, or nil.
func (r *Registry) Get(name string) Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// All returns every capability in registration order.
func (r *Registry) All() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capability, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tools[n])
	}
	return out
}

// Names returns capability names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Invoke runs the named capability. It never returns a bare error: every
// failure is reported through Result.Failure.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) Result {
	start := time.Now()
	res := Result{Tool: name}

	c := r.Get(name)
	if c == nil {
		res.Failure = types.WrapFailure(types.FailureMissingInput, name, fmt.Errorf("%w: %s", ErrToolNotFound, name))
		res.Error = res.Failure.Error()
		return res
	}
	if err := validateArgs(c.Schema(), args); err != nil {
		res.Failure = types.WrapFailure(types.FailureMissingInput, name, err)
		res.Error = res.Failure.Error()
		return res
	}

	out, err := c.Invoke(ctx, args)
	res.Duration = time.Since(start)
	if err != nil {
		f, ok := types.AsFailure(err)
		if !ok {
			f = types.WrapFailure(types.FailureBackend, name, err)
		}
		res.Failure = f
		res.Error = f.Error()
		r.log.Warn("tool failed", logging.String("tool", name), logging.Err(err))
		return res
	}
	res.Output = out
	r.log.Debug("tool completed", logging.String("tool", name), logging.Duration("duration", res.Duration))
	return res
}

func validateArgs(s Schema, args map[string]any) error {
	for _, req := range s.Required {
		if _, ok := args[req]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, req)
		}
	}
	return nil
}

// StringArg reads a string argument; absent means "".
func StringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidArgType, key)
	}
	return s, nil
}

// IntArg reads an integer argument. JSON numbers arrive as float64.
func IntArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgType, key)
	}
}

// StringsArg reads an argument that may be a single string or a list.
func StringsArg(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must contain strings", ErrInvalidArgType, key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a string or list of strings", ErrInvalidArgType, key)
	}
}
