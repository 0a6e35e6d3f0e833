package pypi

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Index is a read-only, mapping-like view over a collection of PyPI
// project names: all of PyPI (from a persisted [NameList]), one user's
// projects, or an explicit collection. The name collection is an explicit
// snapshot constructed by the caller; refreshing it means constructing a
// new Index from a refreshed source.
//
// Info lookups go live to the JSON API through the index's client. By
// default any valid package can be fetched, not just those in the view;
// set strict mode to turn out-of-view lookups into [ErrNotFound].
type Index struct {
	client *Client
	names  map[string]bool
	strict bool
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// Strict makes Info reject names outside the index's collection.
func Strict() IndexOption {
	return func(ix *Index) { ix.strict = true }
}

// NewIndex creates an Index over an explicit collection of project names.
func NewIndex(client *Client, names []string, opts ...IndexOption) *Index {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	ix := &Index{client: client, names: set}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// NewIndexFromNameList creates an Index over a persisted full name list.
func NewIndexFromNameList(client *Client, list *NameList, opts ...IndexOption) *Index {
	names := make([]string, 0, list.Len())
	for n := range list.Names {
		names = append(names, n)
	}
	return NewIndex(client, names, opts...)
}

// NewIndexForUser creates an Index over the projects of one PyPI user,
// scraped live from their user page.
func NewIndexForUser(ctx context.Context, client *Client, user string, opts ...IndexOption) (*Index, error) {
	projects, err := client.FetchUserProjects(ctx, user)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return NewIndex(client, names, opts...), nil
}

// Len returns the number of project names in the view.
func (ix *Index) Len() int { return len(ix.names) }

// Contains reports whether name is in the view.
func (ix *Index) Contains(name string) bool {
	return ix.names[strings.ToLower(strings.TrimSpace(name))]
}

// Names returns the project names in the view, sorted.
func (ix *Index) Names() []string {
	out := make([]string, 0, len(ix.names))
	for n := range ix.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Info fetches the live package info for name. In strict mode, names
// outside the view fail with [ErrNotFound] before any request is made.
func (ix *Index) Info(ctx context.Context, name string, refresh bool) (*Info, error) {
	if ix.strict && !ix.Contains(name) {
		return nil, fmt.Errorf("%w: %s is not in this index", ErrNotFound, name)
	}
	return ix.client.FetchInfo(ctx, name, refresh)
}
