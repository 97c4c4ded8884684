// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package council

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RydeBaseURL is the origin of Ryde Council's KapishWebGrid. Tests and
// the council.ryde_base_url setting override it.
var RydeBaseURL = "https://cmweb.ryde.nsw.gov.au"

// rydeSuffix is the container suffix Ryde appends to application numbers.
const rydeSuffix = "0010"

// Ryde is the portal for the City of Ryde.
type Ryde struct {
	base *url.URL
}

// NewRyde creates the Ryde portal. An empty baseURL uses RydeBaseURL.
func NewRyde(baseURL string) *Ryde {
	if baseURL == "" {
		baseURL = RydeBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		u, _ = url.Parse(RydeBaseURL)
	}
	return &Ryde{base: u}
}

func (r *Ryde) Name() string { return "Ryde Council" }

func (r *Ryde) Matches(jurisdiction string) bool {
	j := strings.ToUpper(strings.TrimSpace(jurisdiction))
	return strings.HasPrefix(j, "RYDE")
}

func (r *Ryde) LookupURL(reference string) string {
	q := url.Values{}
	q.Set("s", "DATracker")
	q.Set("containerex", NormalizeRydeReference(reference))
	return r.base.String() + "/KapishWebGrid/default.aspx?" + encodeOrdered(q, "s", "containerex")
}

// Documents reads the rgMasterTable grid; when the grid is absent it
// falls back to any link that looks like a document.
func (r *Ryde) Documents(doc *goquery.Document) []Document {
	table := doc.Find("table.rgMasterTable").First()
	if table.Length() == 0 {
		return r.scanLinks(doc)
	}

	var docs []Document
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		href, ok := row.Find("a[href]").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		docs = append(docs, Document{
			Title: strings.TrimSpace(cells.First().Text()),
			URL:   resolveLink(r.base, href),
		})
	})
	return docs
}

func (r *Ryde) scanLinks(doc *goquery.Document) []Document {
	var docs []Document
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		lower := strings.ToLower(strings.TrimSpace(href))
		if lower == "" || !(strings.HasSuffix(lower, ".pdf") || strings.Contains(lower, "document")) {
			return
		}
		title := strings.TrimSpace(a.Text())
		if title == "" {
			title = "Document"
		}
		docs = append(docs, Document{Title: title, URL: resolveLink(r.base, href)})
	})
	return docs
}

// NormalizeRydeReference converts an application number into the
// container form the portal expects. "LDA2021/0138" becomes
// "LDA2021/00138/0010"; a three-part reference is kept as given and any
// other shape gets the container suffix appended.
func NormalizeRydeReference(reference string) string {
	reference = strings.TrimSpace(reference)
	parts := strings.Split(reference, "/")
	switch len(parts) {
	case 2:
		number := parts[1]
		if len(number) < 5 {
			number = strings.Repeat("0", 5-len(number)) + number
		}
		return parts[0] + "/" + number + "/" + rydeSuffix
	case 3:
		return reference
	default:
		return reference + "/" + rydeSuffix
	}
}

// encodeOrdered encodes q with keys in the given order.
func encodeOrdered(q url.Values, keys ...string) string {
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(q.Get(k)))
	}
	return strings.Join(pairs, "&")
}
