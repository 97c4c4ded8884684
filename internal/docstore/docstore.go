// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore provides search-with-summarization backends: Vertex AI
// Search over an indexed data store, and a local read-only corpus held in
// an in-memory SQLite database.
package docstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// Searcher answers a query with a summary and the matching documents.
type Searcher interface {
	SearchDocs(ctx context.Context, query string) (*types.DocSearchResponse, error)
}

// New builds the backend named by cfg.Backend. It returns nil for "none".
// The returned close func releases backend resources and is never nil.
// opts are passed to the Vertex AI Search client.
func New(ctx context.Context, cfg types.DocStoreConfig, log logging.Logger, opts ...option.ClientOption) (Searcher, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case "", "none":
		return nil, noop, nil
	case "vertex":
		v, err := NewVertex(ctx, cfg, log, opts...)
		if err != nil {
			return nil, noop, err
		}
		return v, v.Close, nil
	case "local":
		l, err := OpenLocal(ctx, cfg, log)
		if err != nil {
			return nil, noop, err
		}
		return l, l.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown docstore backend %q", cfg.Backend)
	}
}
