package ingest

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// keywordPaths maps keyword types to their portal path segment.
var keywordPaths = map[string]string{
	"location":     "orte",
	"person":       "personen",
	"subject":      "themen",
	"organization": "organisationen",
}

// skippedDepartments are sitemap links that are not departments.
var skippedDepartments = map[string]struct{}{"startseite": {}}

// links builds the uri and portal href of parsed rows.
type links struct {
	apiURL    string
	portalURL string
}

func (l links) uri(e domref.Entity, id string) string {
	return l.apiURL + "/" + string(e) + "/" + id
}

func (l links) portal(path string) string {
	return l.portalURL + "/" + path
}

func readDoc(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	return doc, nil
}

func attr(el *etree.Element, name string) string {
	return strings.TrimSpace(el.SelectAttrValue(name, ""))
}

func text(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

func (l links) products(data []byte) ([]domref.Row, error) {
	doc, err := readDoc(data)
	if err != nil {
		return nil, err
	}
	var rows []domref.Row
	for _, el := range doc.FindElements("//product") {
		id := strings.ToLower(attr(el, "id"))
		rows = append(rows, domref.NewRow(domref.Product, map[string]any{
			"href":  attr(el, "href"),
			"id":    id,
			"uri":   l.uri(domref.Product, id),
			"value": text(el),
		}))
	}
	return rows, nil
}

func (l links) series(data []byte) ([]domref.Row, error) {
	doc, err := readDoc(data)
	if err != nil {
		return nil, err
	}
	var rows []domref.Row
	for _, el := range doc.FindElements("//series") {
		id := attr(el, "url")
		rows = append(rows, domref.NewRow(domref.Series, map[string]any{
			"href":  l.portal("serie/" + id),
			"id":    id,
			"name":  attr(el, "serienname"),
			"uri":   l.uri(domref.Series, id),
			"value": attr(el, "title"),
		}))
	}
	return rows, nil
}

// keywords scores each tag by the rank of its frequency among all distinct
// frequencies, scaled to 1..100.
func (l links) keywords(data []byte) ([]domref.Row, error) {
	doc, err := readDoc(data)
	if err != nil {
		return nil, err
	}
	tags := doc.FindElements("//tag")

	freqs := make([]int, len(tags))
	distinct := map[int]struct{}{}
	for i, el := range tags {
		n, err := strconv.Atoi(attr(el, "freq"))
		if err != nil {
			return nil, fmt.Errorf("keyword %q: invalid freq: %w", attr(el, "url_value"), err)
		}
		freqs[i] = n
		distinct[n] = struct{}{}
	}
	ranks := make([]int, 0, len(distinct))
	for n := range distinct {
		ranks = append(ranks, n)
	}
	sort.Ints(ranks)

	rows := make([]domref.Row, 0, len(tags))
	for i, el := range tags {
		id := attr(el, "url_value")
		kwType := strings.ToLower(attr(el, "type"))
		if kwType == "free" || kwType == "topic" {
			kwType = "subject"
		}
		segment, ok := keywordPaths[kwType]
		if !ok {
			segment = kwType
		}
		rank := sort.SearchInts(ranks, freqs[i]) + 1
		rows = append(rows, domref.NewRow(domref.Keyword, map[string]any{
			"href":    l.portal("schlagworte/" + segment + "/" + id + "/index"),
			"id":      id,
			"lexical": attr(el, "lexical_value"),
			"score":   int64(100.0 / float64(len(ranks)) * float64(rank)),
			"type":    kwType,
			"uri":     l.uri(domref.Keyword, id),
			"value":   text(el),
		}))
	}
	return rows, nil
}

// departments reads the sitemap list. A link whose first path segment differs
// from its label is a sub department of that segment.
func (l links) departments(data []byte) ([]domref.Row, error) {
	doc, err := readDoc(data)
	if err != nil {
		return nil, err
	}
	var rows []domref.Row
	for _, el := range doc.FindElements("/lists/list[@id='sitemap']//link") {
		id := attr(el, "label")
		if _, skip := skippedDepartments[id]; skip || id == "" {
			continue
		}
		parent := firstSegment(attr(el, "href"))
		if parent == id {
			parent = ""
		}
		path := id
		if parent != "" {
			path = parent + "/" + id
		}
		rows = append(rows, domref.NewRow(domref.Department, map[string]any{
			"href":   l.portal(path + "/index"),
			"id":     id,
			"parent": parent,
			"uri":    l.uri(domref.Department, id),
			"value":  text(el),
		}))
	}
	return rows, nil
}

func firstSegment(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path := strings.TrimLeft(u.Path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		path = path[:i]
	}
	return path
}

// authorNames reads the author facet of a search engine select response.
func authorNames(data []byte) ([]string, error) {
	doc, err := readDoc(data)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, el := range doc.FindElements("//lst[@name='author']/int") {
		if name := attr(el, "name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// authorPage is the portal profile page of an author, keyed by the initial
// of the last name.
func (l links) authorPage(name string) string {
	words := strings.Split(name, " ")
	initial := "A"
	if last := words[len(words)-1]; last != "" {
		r, _ := utf8.DecodeRuneInString(last)
		initial = string(r)
	}
	return l.portal("autoren/" + initial + "/" + strings.ReplaceAll(name, " ", "_") + "/index.xml")
}

func (l links) author(name, href string) domref.Row {
	id := strings.ReplaceAll(name, " ", "-")
	return domref.NewRow(domref.Author, map[string]any{
		"href":  href,
		"id":    id,
		"type":  "author",
		"uri":   l.uri(domref.Author, id),
		"value": name,
	})
}
