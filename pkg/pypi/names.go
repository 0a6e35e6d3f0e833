package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pypeek/pypeek/pkg/cache"
)

// nameListKey is the cache key under which the persisted name list lives.
const nameListKey = "pypi:namelist"

var pkgStubRE = regexp.MustCompile(`^/simple/([^/]+)/`)

// NameList is a point-in-time snapshot of every project name on PyPI,
// mapping the lowercased display name to its simple-index stub. It is
// persisted through the cache layer and refreshed explicitly; nothing loads
// it implicitly at startup.
type NameList struct {
	Names     map[string]string `json:"names"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Len returns the number of project names in the list.
func (n *NameList) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Names)
}

// Contains reports whether name (normalized to lowercase) is in the list.
func (n *NameList) Contains(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// FetchNameList scrapes the simple index for the full set of project names.
// This downloads a very large page; callers should persist the result with
// [SaveNameList] rather than fetching repeatedly.
func (c *Client) FetchNameList(ctx context.Context) (*NameList, error) {
	page, err := c.getText(ctx, c.SimpleURL)
	if err != nil {
		return nil, err
	}
	names, err := parseSimpleIndex(page)
	if err != nil {
		return nil, err
	}
	return &NameList{Names: names, FetchedAt: time.Now().UTC()}, nil
}

// parseSimpleIndex extracts {name: stub} pairs from simple-index HTML.
// Each anchor's text is the display name; the stub comes from its
// /simple/<stub>/ href. Anchors without a parseable href are skipped.
func parseSimpleIndex(page string) (map[string]string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse simple index: %w", err)
	}
	names := make(map[string]string)
	for _, a := range findAll(root, func(n *html.Node) bool { return n.Data == "a" }) {
		m := pkgStubRE.FindStringSubmatch(attrValue(a, "href"))
		if m == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(textContent(a)))
		if name != "" {
			names[name] = m[1]
		}
	}
	return names, nil
}

// LoadNameList retrieves the persisted name list. The second return is
// false when no list has been saved yet.
func LoadNameList(ctx context.Context, backend cache.Cache) (*NameList, bool, error) {
	data, ok, err := backend.Get(ctx, nameListKey)
	if err != nil || !ok {
		return nil, false, err
	}
	var list NameList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("decode stored name list: %w", err)
	}
	return &list, true, nil
}

// SaveNameList persists the name list with no expiry; staleness is managed
// by explicit refreshes, not TTLs.
func SaveNameList(ctx context.Context, backend cache.Cache, list *NameList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return backend.Set(ctx, nameListKey, data, 0)
}

// RefreshNameList fetches a fresh name list and persists it, returning the
// previous and new counts so callers can report the change.
func RefreshNameList(ctx context.Context, c *Client, backend cache.Cache) (had, now int, err error) {
	if prev, ok, _ := LoadNameList(ctx, backend); ok {
		had = prev.Len()
	}
	list, err := c.FetchNameList(ctx)
	if err != nil {
		return had, 0, err
	}
	if err := SaveNameList(ctx, backend, list); err != nil {
		return had, list.Len(), err
	}
	return had, list.Len(), nil
}

// findAll returns element nodes under root (inclusive) matching pred.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
