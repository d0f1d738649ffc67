package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeit-online/contentapi/internal/domain/engine"
	"github.com/zeit-online/contentapi/internal/domain/param"
)

const (
	contentSearchPath = "content/search"
	contentIDPath     = "content/id"

	contentSearchFields = "subtitle,uuid,title,href,release_date,uri,snippet,supertitle,teaser_title,teaser_text"
)

// Content is the unfiltered full-text content search.
type Content struct {
	env *Env

	q          *param.String
	sort       *param.String
	fields     *param.Fields
	facetDate  *param.FacetDate
	facetField *param.FacetField
	limit      *param.Int
	offset     *param.Int
	params     *param.Set
}

// NewContent creates a content search.
func NewContent(env *Env) *Content {
	c := &Content{
		env:        env,
		q:          param.NewString("q", "q", "*:*"),
		sort:       param.NewString("sort", "sort", "release_date desc"),
		fields:     param.NewFields(contentSearchFields, "uuid"),
		facetDate:  param.NewFacetDate(),
		facetField: param.NewFacetField(),
		limit:      param.NewLimit(),
		offset:     param.NewOffset(),
	}
	c.params = param.NewSet(c.q, c.sort, c.fields, c.facetDate, c.facetField, c.limit, c.offset)
	return c
}

// Doc describes the query.
func (c *Content) Doc() string { return "Unfiltered content search query." }

// Params returns the query parameters.
func (c *Content) Params() *param.Set { return c.params }

func (c *Content) faceted() bool {
	return c.facetDate.Value() != "" || c.facetField.Value() != ""
}

// Fetch runs the search and shapes every match.
func (c *Content) Fetch(ctx context.Context) (Body, error) {
	out := c.params.Outbound()
	if c.faceted() {
		out.Set("facet", "true")
	}
	if c.facetDate.Value() != "" {
		out.Set("facet.date", "release_date")
	}

	res, err := c.env.Engine.Query(ctx, contentSearchPath, out)
	if err != nil {
		return nil, fmt.Errorf("content search: %w", err)
	}

	explicit := c.fields.Explicit()
	keepUUID := explicit == nil || contains(explicit, "uuid")
	withURI := c.fields.Has("uri")
	withSnippet := c.fields.Has("snippet") && c.q.Value() != c.q.Default()

	for _, doc := range res.Docs {
		id := doc.String("uuid")
		if withURI {
			doc["uri"] = c.env.APIURL + "/content/" + id
		}
		if withSnippet {
			if s, ok := res.Snippet(id); ok {
				doc["snippet"] = s
			}
		}
		if !keepUUID {
			delete(doc, "uuid")
		}
	}

	body := Body{
		"matches": docsOrEmpty(res.Docs),
		"found":   res.Found,
		"limit":   c.limit.Int(),
		"offset":  c.offset.Int(),
	}
	if c.faceted() {
		body["facets"] = res.Facets()
	}
	return body, nil
}

func docsOrEmpty(docs []engine.Doc) []engine.Doc {
	if docs == nil {
		return []engine.Doc{}
	}
	return docs
}

func joinCSV(items []string) string {
	return strings.Join(items, ",")
}

func contains(items []string, name string) bool {
	for _, item := range items {
		if item == name {
			return true
		}
	}
	return false
}
