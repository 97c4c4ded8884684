// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"errors"
	"fmt"

	discoveryengine "cloud.google.com/go/discoveryengine/apiv1"
	"cloud.google.com/go/discoveryengine/apiv1/discoveryenginepb"
	"golang.org/x/oauth2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

const op = "docstore"

// summaryResultCount is how many top results feed the generated summary.
const summaryResultCount = 3

// Vertex queries a Vertex AI Search data store through the Discovery
// Engine search service.
type Vertex struct {
	client *discoveryengine.SearchClient
	cfg    types.DocStoreConfig
	log    logging.Logger
}

// NewVertex creates a Vertex AI Search backend. A configured access token
// is used as a static bearer token; otherwise Application Default
// Credentials apply. opts are appended last and may override either.
func NewVertex(ctx context.Context, cfg types.DocStoreConfig, log logging.Logger, opts ...option.ClientOption) (*Vertex, error) {
	if cfg.Project == "" || cfg.DataStore == "" {
		return nil, fmt.Errorf("vertex docstore requires project and data_store")
	}
	if cfg.Location == "" {
		cfg.Location = "global"
	}
	if cfg.ServingConfig == "" {
		cfg.ServingConfig = "default_config"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = types.DefaultDocPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}

	var clientOpts []option.ClientOption
	if endpoint := vertexEndpoint(cfg.Location); endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint))
	}
	if cfg.AccessToken != "" {
		clientOpts = append(clientOpts, option.WithTokenSource(
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})))
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, option.WithUserAgent(cfg.UserAgent))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := discoveryengine.NewSearchClient(ctx, clientOpts...)
	if err != nil {
		return nil, types.WrapFailure(types.FailureBackend, op, fmt.Errorf("creating Vertex AI Search client: %w", err))
	}
	return &Vertex{client: client, cfg: cfg, log: logging.OrNop(log)}, nil
}

// Close releases the underlying connection.
func (v *Vertex) Close() error {
	return v.client.Close()
}

// vertexEndpoint returns the regional endpoint for location, or "" for
// the global default.
func vertexEndpoint(location string) string {
	if location == "" || location == "global" {
		return ""
	}
	return location + "-discoveryengine.googleapis.com:443"
}

func (v *Vertex) servingConfig() string {
	return fmt.Sprintf("projects/%s/locations/%s/collections/default_collection/dataStores/%s/servingConfigs/%s",
		v.cfg.Project, v.cfg.Location, v.cfg.DataStore, v.cfg.ServingConfig)
}

func newSearchRequest(servingConfig, query string, pageSize int) *discoveryenginepb.SearchRequest {
	return &discoveryenginepb.SearchRequest{
		ServingConfig: servingConfig,
		Query:         query,
		PageSize:      int32(pageSize),
		QueryExpansionSpec: &discoveryenginepb.SearchRequest_QueryExpansionSpec{
			Condition: discoveryenginepb.SearchRequest_QueryExpansionSpec_AUTO,
		},
		SpellCorrectionSpec: &discoveryenginepb.SearchRequest_SpellCorrectionSpec{
			Mode: discoveryenginepb.SearchRequest_SpellCorrectionSpec_AUTO,
		},
		ContentSearchSpec: &discoveryenginepb.SearchRequest_ContentSearchSpec{
			SnippetSpec: &discoveryenginepb.SearchRequest_ContentSearchSpec_SnippetSpec{
				ReturnSnippet: true,
			},
			SummarySpec: &discoveryenginepb.SearchRequest_ContentSearchSpec_SummarySpec{
				SummaryResultCount:           summaryResultCount,
				IncludeCitations:             false,
				IgnoreAdversarialQuery:       true,
				IgnoreNonSummarySeekingQuery: true,
			},
		},
	}
}

// SearchDocs runs query against the data store. Only the first page is
// read.
func (v *Vertex) SearchDocs(ctx context.Context, query string) (*types.DocSearchResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	it := v.client.Search(callCtx, newSearchRequest(v.servingConfig(), query, v.cfg.PageSize))

	out := &types.DocSearchResponse{}
	for len(out.Documents) < v.cfg.PageSize {
		r, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, searchFailure(err)
		}
		out.Documents = append(out.Documents, documentResult(r.GetDocument()))
	}
	if resp, ok := it.Response.(*discoveryenginepb.SearchResponse); ok {
		out.Summary = resp.GetSummary().GetSummaryText()
	}

	v.log.Debug("docstore search complete", logging.String("backend", "vertex"), logging.Int("results", len(out.Documents)))
	return out, nil
}

// documentResult maps a search hit to a WebResult. Title falls back to the
// document id and the link to the resource name.
func documentResult(d *discoveryenginepb.Document) types.WebResult {
	fields := d.GetDerivedStructData().GetFields()
	res := types.WebResult{
		Title: fields["title"].GetStringValue(),
		URL:   fields["link"].GetStringValue(),
	}
	if res.Title == "" {
		res.Title = d.GetId()
	}
	if res.URL == "" {
		res.URL = d.GetName()
	}
	if snippets := fields["snippets"].GetListValue().GetValues(); len(snippets) > 0 {
		res.Snippet = firstString(snippets[0], "snippet")
	}
	return res
}

func firstString(v *structpb.Value, key string) string {
	return v.GetStructValue().GetFields()[key].GetStringValue()
}

// searchFailure classifies an RPC error: transport trouble is a network
// failure, anything the service rejected is a backend failure.
func searchFailure(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return types.WrapFailure(types.FailureNetwork, op, fmt.Errorf("calling Vertex AI Search: %w", err))
	default:
		return types.NewFailure(types.FailureBackend, op, "Vertex AI Search returned %s: %s", status.Code(err), status.Convert(err).Message())
	}
}
