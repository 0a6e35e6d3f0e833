// Package deps turns the flat dependency data reported by pipdeptree into
// queryable views of an installed Python environment.
//
// # Overview
//
// The entry point is [Normalize], which converts raw pipdeptree records into
// an immutable [Snapshot]: an index of package info plus an adjacency map of
// dependency edges, both keyed by PEP 503 normalized package keys.
//
// A Snapshot supports three kinds of derived views:
//
//   - Flat dependency lists, direct or transitive ([Snapshot.Dependencies],
//     [Snapshot.Names], [Snapshot.NamesWithReq], [Snapshot.Tuples])
//   - Nested dependency trees ([Snapshot.Tree])
//   - Detailed records with version-conflict detection ([Snapshot.Details])
//
// Snapshots are never mutated after construction, so a single Snapshot may
// be shared freely across goroutines and reused for any number of queries.
//
// # Example
//
//	src := &pipdeptree.Source{}
//	snap, _ := src.Snapshot(ctx, "bs4")
//	names, _ := snap.Names("bs4", true)
//	// names: ["beautifulsoup4", "soupsieve", "typing_extensions"]
//
// # Version constraints
//
// Requirement strings follow PEP 440 specifier syntax (">=1.2,<2.0"). An
// empty requirement means "any version". [Satisfies] checks an installed
// version against a specifier; [Snapshot.Details] uses it to flag installed
// versions that violate their declared requirement.
package deps
