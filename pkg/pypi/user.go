package pypi

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var countRE = regexp.MustCompile(`\d+`)

// UserProject is one project listed on a user's PyPI page, with the
// datetime of its last release. Scraped from HTML; there is no JSON API for
// user project listings.
type UserProject struct {
	Name string `json:"name"`
	Href string `json:"href"`
	Date string `json:"date"` // last release datetime, as published on the page
}

// FetchUserProjects scrapes the project list from a user's PyPI page.
// The page declares its own project count in a heading; a mismatch between
// that count and the snippets actually found is reported as an error since
// it means the page layout changed or the listing is paginated.
//
// Returns [ErrNotFound] if the user doesn't exist.
func (c *Client) FetchUserProjects(ctx context.Context, user string) ([]UserProject, error) {
	page, err := c.getText(ctx, fmt.Sprintf("%s/%s/", c.UserURL, user))
	if err != nil {
		return nil, err
	}
	return parseUserPage(page)
}

func parseUserPage(page string) ([]UserProject, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse user page: %w", err)
	}

	expected := -1
	if h2s := findAll(root, func(n *html.Node) bool { return n.Data == "h2" }); len(h2s) > 0 {
		if m := countRE.FindString(textContent(h2s[0])); m != "" {
			expected, _ = strconv.Atoi(m)
		}
	}

	snippets := findAll(root, func(n *html.Node) bool {
		return n.Data == "a" && strings.Contains(attrValue(n, "class"), "package-snippet")
	})

	projects := make([]UserProject, 0, len(snippets))
	for _, a := range snippets {
		p := UserProject{Href: attrValue(a, "href")}
		if h3 := findAll(a, func(n *html.Node) bool { return n.Data == "h3" }); len(h3) > 0 {
			p.Name = strings.TrimSpace(textContent(h3[0]))
		}
		if times := findAll(a, func(n *html.Node) bool { return n.Data == "time" }); len(times) > 0 {
			p.Date = attrValue(times[0], "datetime")
		}
		projects = append(projects, p)
	}

	if expected >= 0 && expected != len(projects) {
		return nil, fmt.Errorf("expected %d projects but found %d listed", expected, len(projects))
	}
	return projects, nil
}
