// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/da-research/internal/classify"
	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/pkg/types"
)

// CorpusDocument is one entry of a local corpus file.
type CorpusDocument struct {
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Content string `yaml:"content"`
}

// Corpus is the YAML layout loaded by the local backend.
type Corpus struct {
	Documents []CorpusDocument `yaml:"documents"`
}

// Local searches a read-only corpus loaded into an in-memory SQLite
// database. Nothing is written to disk and the database disappears on Close.
type Local struct {
	db       *sql.DB
	pageSize int
	log      logging.Logger
}

// OpenLocal loads cfg.CorpusPath and opens the in-memory store.
func OpenLocal(ctx context.Context, cfg types.DocStoreConfig, log logging.Logger) (*Local, error) {
	if cfg.CorpusPath == "" {
		return nil, fmt.Errorf("local docstore requires corpus_path")
	}
	data, err := os.ReadFile(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", cfg.CorpusPath, err)
	}
	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", cfg.CorpusPath, err)
	}
	return NewLocal(ctx, corpus, cfg.PageSize, log)
}

// NewLocal builds the store from corpus.
func NewLocal(ctx context.Context, corpus Corpus, pageSize int, log logging.Logger) (*Local, error) {
	dsn := fmt.Sprintf("file:docstore-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps the in-memory database alive.
	db.SetMaxOpenConns(1)

	if pageSize <= 0 {
		pageSize = types.DefaultDocPageSize
	}
	l := &Local{db: db, pageSize: pageSize, log: logging.OrNop(log)}

	if err := l.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := l.load(ctx, corpus.Documents); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return l, nil
}

// Close releases the database.
func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_url ON documents(url)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (l *Local) load(ctx context.Context, docs []CorpusDocument) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (title, url, content) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range docs {
		if strings.TrimSpace(d.URL) == "" {
			return fmt.Errorf("document %d (%q) has no url", i, d.Title)
		}
		if _, err := stmt.ExecContext(ctx, d.Title, d.URL, d.Content); err != nil {
			return fmt.Errorf("inserting document %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// SearchDocs ranks documents by how many query terms appear in the title
// (weight 2) and the content (weight 1). The summary is extractive: the
// best matching sentence of each of the top results.
func (l *Local) SearchDocs(ctx context.Context, query string) (*types.DocSearchResponse, error) {
	terms := classify.Terms(query)
	out := &types.DocSearchResponse{}
	if len(terms) == 0 {
		return out, nil
	}

	var score []string
	var args []any
	for _, t := range terms {
		score = append(score,
			"(CASE WHEN instr(lower(title), ?) > 0 THEN 2 ELSE 0 END)",
			"(CASE WHEN instr(lower(content), ?) > 0 THEN 1 ELSE 0 END)")
		args = append(args, t, t)
	}
	args = append(args, l.pageSize)

	q := `SELECT title, url, content, score FROM (
			SELECT id, title, url, content, ` + strings.Join(score, " + ") + ` AS score FROM documents
		) WHERE score > 0 ORDER BY score DESC, id ASC LIMIT ?`

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, types.WrapFailure(types.FailureBackend, op, fmt.Errorf("querying documents: %w", err))
	}
	defer rows.Close()

	var summary []string
	for rows.Next() {
		var title, url, content string
		var sc int
		if err := rows.Scan(&title, &url, &content, &sc); err != nil {
			return nil, types.WrapFailure(types.FailureBackend, op, fmt.Errorf("scanning row: %w", err))
		}
		snippet := bestSentence(content, terms)
		out.Documents = append(out.Documents, types.WebResult{Title: title, URL: url, Snippet: snippet})
		if snippet != "" && len(summary) < summaryResultCount {
			summary = append(summary, snippet)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapFailure(types.FailureBackend, op, err)
	}

	out.Summary = strings.Join(summary, " ")
	l.log.Debug("docstore search complete", logging.String("backend", "local"), logging.Int("results", len(out.Documents)))
	return out, nil
}

// bestSentence returns the sentence of content containing the most terms.
func bestSentence(content string, terms []string) string {
	best, bestHits := "", 0
	for _, s := range classify.Sentences(content) {
		lower := strings.ToLower(s)
		hits := 0
		for _, t := range terms {
			if strings.Contains(lower, t) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = s, hits
		}
	}
	return best
}
