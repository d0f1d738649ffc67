package query

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/engine"
	"github.com/zeit-online/contentapi/internal/domain/param"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

const contentItemFields = "categories,creators,href,keywords,relations,release_date," +
	"supertitle,teaser_text,teaser_title,title,uri,uuid"

// listFields are always present as lists on a content item.
var listFields = []string{"categories", "creators", "keywords", "relations"}

// categorySources maps document fields to the reference table holding their names.
var categorySources = []struct {
	field  string
	entity domref.Entity
}{
	{"department", domref.Department},
	{"product", domref.Product},
	{"sub_department", domref.Department},
	{"series", domref.Series},
}

// Link is a cross reference attached to a content item.
type Link struct {
	Rel  string `json:"rel"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// ContentByID loads one content item and resolves its cross references.
type ContentByID struct {
	env *Env
	id  string

	fields *param.List
	fq     *param.String
	q      *param.String
	params *param.Set
}

// NewContentByID creates a content item lookup.
func NewContentByID(env *Env, id string) *ContentByID {
	c := &ContentByID{
		env:    env,
		id:     id,
		fields: param.NewList("fields", "", contentItemFields),
		fq:     param.NewString("", "fq", "uuid:"+id),
		q:      param.NewString("", "q", "*:*"),
	}
	c.params = param.NewSet(c.fields, c.fq, c.q)
	return c
}

// Doc describes the query.
func (c *ContentByID) Doc() string { return "Display content item with the given id." }

// Params returns the query parameters.
func (c *ContentByID) Params() *param.Set { return c.params }

// Fetch loads the item, enriches the selected list fields and strips
// everything not selected.
func (c *ContentByID) Fetch(ctx context.Context) (Body, error) {
	out := url.Values{}
	out.Set(c.fq.Origin(), c.fq.Value())
	out.Set(c.q.Origin(), c.q.Value())

	res, err := c.env.Engine.Query(ctx, contentIDPath, out)
	if err != nil {
		return nil, fmt.Errorf("content lookup: %w", err)
	}
	if len(res.Docs) == 0 {
		return nil, fmt.Errorf("%w: content/%s", domain.ErrResourceNotFound, c.id)
	}
	doc := res.Docs[0]

	delete(doc, "body")
	if c.fields.Has("uri") {
		doc["uri"] = c.env.APIURL + "/content/" + doc.String("uuid")
	}

	links := map[string][]Link{}
	if c.fields.Has("keywords") {
		links["keywords"] = c.keywords(ctx, doc.Strings("keyword"))
	}
	if c.fields.Has("relations") {
		links["relations"] = c.relations(ctx, doc.Strings("related"))
	}
	if c.fields.Has("creators") {
		links["creators"] = c.creators(doc.Strings("author"))
	}
	if c.fields.Has("categories") {
		links["categories"] = c.categories(ctx, doc)
	}
	for _, name := range listFields {
		if l := links[name]; l != nil {
			doc[name] = l
		} else {
			doc[name] = []Link{}
		}
	}

	body := Body{}
	for k, v := range doc {
		if c.fields.Has(k) {
			body[k] = v
		}
	}
	return body, nil
}

func (c *ContentByID) keywords(ctx context.Context, ids []string) []Link {
	out := []Link{}
	for _, id := range ids {
		kwType, value, err := c.env.References.Keyword(ctx, id)
		if err != nil {
			c.env.logger().Debug("skip keyword", zap.String("keyword", id), zap.Error(err))
			continue
		}
		out = append(out, Link{Rel: kwType, Name: value, URI: c.env.APIURL + "/keyword/" + id})
	}
	return out
}

func (c *ContentByID) relations(ctx context.Context, ids []string) []Link {
	out := []Link{}
	for _, id := range ids {
		res, err := c.env.Engine.Query(ctx, contentIDPath, url.Values{"q": {id}})
		if err != nil || len(res.Docs) == 0 {
			c.env.logger().Debug("skip relation", zap.String("content", id), zap.Error(err))
			continue
		}
		title, ok := res.Docs[0]["title"].(string)
		if !ok || title == "" {
			c.env.logger().Debug("skip relation without title", zap.String("content", id))
			continue
		}
		out = append(out, Link{Rel: "related", Name: title, URI: c.env.APIURL + "/content/" + id})
	}
	return out
}

func (c *ContentByID) creators(names []string) []Link {
	out := []Link{}
	for _, name := range names {
		out = append(out, Link{
			Rel:  "author",
			Name: name,
			URI:  c.env.APIURL + "/author/" + strings.ReplaceAll(name, " ", "-"),
		})
	}
	return out
}

func (c *ContentByID) categories(ctx context.Context, doc engine.Doc) []Link {
	out := []Link{}
	for _, src := range categorySources {
		for _, id := range doc.Strings(src.field) {
			name, err := c.env.References.Value(ctx, src.entity, id)
			if err != nil {
				c.env.logger().Debug("skip category",
					zap.String("field", src.field), zap.String("id", id), zap.Error(err))
				continue
			}
			out = append(out, Link{
				Rel:  src.field,
				Name: name,
				URI:  c.env.APIURL + "/" + string(src.entity) + "/" + id,
			})
		}
	}
	return out
}
