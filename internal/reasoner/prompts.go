// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reasoner

import (
	"bytes"
	"text/template"
)

// Instruction texts for the agents built on the reasoner.
const (
	CoordinatorInstruction = `You are a property research coordinator. Based on the user's query:

1. If they mention a council reference or development application number, analyze the council documents for it.
2. For general property information, or when no council reference is available, search for public information online.
3. When both kinds of information help, combine them into one answer.

Focus on environmental factors (flooding, bushfire, contamination), zoning and planning, community feedback or objections, infrastructure and services, and historical significance.
For each finding, say whether it is a positive, neutral, or negative factor.
Always cite sources with the exact URL or document name where the information was found.`

	SearchInstruction = `You are a property research agent that finds public information about development applications and properties.
Search with the terms provided and craft additional searches as needed. Visit relevant pages with the browse_web tool.
Extract details on environmental factors, zoning and planning, community feedback, infrastructure and services, and historical significance.
Tag each finding as positive, neutral, or negative and cite the exact URL. If you cannot find information on a topic, say so.`

	DocumentInstruction = `You are a document analysis agent for development application documents.
Use scrape_council_website to find document links for the council reference, then extract_pdf_text to read them.
Report environmental assessments, zoning and planning details, community feedback, infrastructure requirements, and historical significance.
For each finding give the document name, the sentiment (positive, neutral, or negative), and the category. Quote the documents where useful.`
)

var classifyPromptTmpl = template.Must(template.New("classify").Parse(`Analyze the following text retrieved from {{if .Title}}"{{.Title}}" ({{.URL}}){{else}}{{.URL}}{{end}} about a property or development application.

Extract findings in these categories only:
- environmental: flooding, bushfire, contamination, ecology
- zoning: zoning, planning controls, approvals, compliance
- community: community feedback, submissions, objections, support
- infrastructure: transport, traffic, parking, utilities, services
- historical: heritage listing, archaeology, historical significance

For each finding give:
- category: one of "environmental", "zoning", "community", "infrastructure", "historical"
- sentiment: "positive", "neutral", or "negative" for the development
- text: one or two factual sentences, quoting the source where possible

Respond with a JSON object containing a "findings" array and nothing else. Return {"findings": []} when the text has nothing relevant.

Example response:
{"findings": [{"category": "environmental", "sentiment": "negative", "text": "The site is identified as flood prone land in the 1% AEP event."}]}

Text:
{{.Text}}
`))

var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`Question: {{.Question}}
{{- if .Reference}}
Council reference: {{.Reference}}{{if .Jurisdiction}} ({{.Jurisdiction}}){{end}}
{{- end}}

Findings gathered so far:
{{- range .Findings}}
- [{{.Category.Label}}] [{{.Sentiment}}] {{.Text}} (source: {{.Source.URL}})
{{- else}}
- none
{{- end}}
{{- if .Notes}}

Retrieval notes:
{{- range .Notes}}
- {{.}}
{{- end}}
{{- end}}

Write a concise answer grouped by category. Tag each point as positive, neutral, or negative and cite its source URL or document name. Say clearly when a category has no information.
`))

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
