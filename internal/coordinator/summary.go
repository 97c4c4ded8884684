// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coordinator

import (
	"fmt"
	"strings"

	"github.com/pdiddy/da-research/pkg/types"
)

// Summarize renders findings grouped by category with sentiment tags and
// source citations. It is the synthesis used when no reasoner is
// configured or the reasoner fails.
func Summarize(q types.Query, findings []types.Finding, notes []string) string {
	var b strings.Builder

	switch {
	case q.HasText() && q.HasReference():
		fmt.Fprintf(&b, "Research summary for %q (council reference %s)\n", strings.TrimSpace(q.Text), q.CouncilReference)
	case q.HasReference():
		fmt.Fprintf(&b, "Research summary for council reference %s\n", q.CouncilReference)
	default:
		fmt.Fprintf(&b, "Research summary for %q\n", strings.TrimSpace(q.Text))
	}

	if len(findings) == 0 {
		b.WriteString("\nNo information found.\n")
	}

	for _, c := range types.Categories {
		var lines []string
		for _, f := range findings {
			if f.Category != c {
				continue
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s (source: %s)", f.Sentiment, f.Text, cite(f.Source)))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n%s\n", c.Label(), strings.Join(lines, "\n"))
	}

	if len(notes) > 0 {
		b.WriteString("\nNotes\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func cite(s types.SourceRef) string {
	if s.Title != "" {
		return fmt.Sprintf("%s, %s", s.Title, s.URL)
	}
	return s.URL
}
