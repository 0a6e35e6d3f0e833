package deps

import (
	"fmt"
	"slices"
	"strings"
)

// RawPackage is the identity block of a pipdeptree record: the package's own
// key, display name, and installed version.
type RawPackage struct {
	Key              string `json:"key"`
	PackageName      string `json:"package_name"`
	InstalledVersion string `json:"installed_version"`
}

// RawDependency is one immediate dependency inside a pipdeptree record.
// RequiredVersion is the raw specifier string; pipdeptree reports the
// literal "Any" for unconstrained requirements.
type RawDependency struct {
	Key              string `json:"key"`
	PackageName      string `json:"package_name"`
	InstalledVersion string `json:"installed_version"`
	RequiredVersion  string `json:"required_version"`
}

// RawRecord is one entry of pipdeptree's JSON output: a package and its
// immediate dependencies.
type RawRecord struct {
	Package      RawPackage      `json:"package"`
	Dependencies []RawDependency `json:"dependencies"`
}

// PackageInfo holds the display name and installed version attached to one
// package key. Immutable once the snapshot is built.
type PackageInfo struct {
	PackageName      string `json:"package_name"`
	InstalledVersion string `json:"installed_version"`
}

// Snapshot is an immutable view of one dependency graph: an info index
// (key -> PackageInfo) and an adjacency map (key -> {dep key -> required
// version}). Build one with [Normalize] and share it freely; queries never
// mutate it.
type Snapshot struct {
	info map[string]PackageInfo
	adj  map[string]map[string]string
}

// NormalizeKey converts a package name to its canonical key form.
// Applies lowercase and replaces underscores with hyphens, following PEP 503
// normalization rules used by PyPI. All snapshot lookups use normalized keys.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// normalizeRequirement canonicalizes the "unconstrained" spelling: pipdeptree
// emits the literal "Any", which the rest of the core treats as the empty
// string.
func normalizeRequirement(req string) string {
	if strings.EqualFold(strings.TrimSpace(req), "any") {
		return ""
	}
	return strings.TrimSpace(req)
}

// Normalize builds a Snapshot from raw pipdeptree records.
//
// Every key encountered, as a root or as a dependency, gets exactly one info
// entry, taken from wherever the package is first described. Each root record
// gets an adjacency entry with one edge per dependency; records with no
// dependencies get a present-but-empty entry, distinguishing "known leaf"
// from "unknown key".
//
// Returns [ErrMalformedRecord] if a record lacks a package key or one of its
// dependencies lacks a key.
func Normalize(records []RawRecord) (*Snapshot, error) {
	s := &Snapshot{
		info: make(map[string]PackageInfo, len(records)),
		adj:  make(map[string]map[string]string, len(records)),
	}

	for i, rec := range records {
		if strings.TrimSpace(rec.Package.Key) == "" {
			return nil, fmt.Errorf("%w: record %d has no package key", ErrMalformedRecord, i)
		}
		key := NormalizeKey(rec.Package.Key)
		if _, seen := s.info[key]; !seen {
			s.info[key] = PackageInfo{
				PackageName:      rec.Package.PackageName,
				InstalledVersion: rec.Package.InstalledVersion,
			}
		}

		edges := make(map[string]string, len(rec.Dependencies))
		for _, dep := range rec.Dependencies {
			if strings.TrimSpace(dep.Key) == "" {
				return nil, fmt.Errorf("%w: record %d (%s) has a dependency with no key", ErrMalformedRecord, i, key)
			}
			depKey := NormalizeKey(dep.Key)
			edges[depKey] = normalizeRequirement(dep.RequiredVersion)
			if _, seen := s.info[depKey]; !seen {
				s.info[depKey] = PackageInfo{
					PackageName:      dep.PackageName,
					InstalledVersion: dep.InstalledVersion,
				}
			}
		}
		s.adj[key] = edges
	}
	return s, nil
}

// Len returns the number of distinct packages known to the snapshot.
func (s *Snapshot) Len() int { return len(s.info) }

// Keys returns all package keys known to the snapshot, sorted.
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.info))
	for k := range s.info {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Info returns the package info for key (normalized before lookup).
func (s *Snapshot) Info(key string) (PackageInfo, bool) {
	info, ok := s.info[NormalizeKey(key)]
	return info, ok
}

// Has reports whether key is known to the snapshot.
func (s *Snapshot) Has(key string) bool {
	_, ok := s.info[NormalizeKey(key)]
	return ok
}

// Direct returns a copy of the immediate dependency edges of key
// (dep key -> required version). The second return is false when the key was
// never described as a root record, which is distinct from a known leaf with
// zero dependencies.
func (s *Snapshot) Direct(key string) (map[string]string, bool) {
	edges, ok := s.adj[NormalizeKey(key)]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(edges))
	for k, v := range edges {
		out[k] = v
	}
	return out, true
}

// requirementFor picks the required-version string reported for a
// transitively reached package. When several parents declare different
// requirements, the edge from the lexicographically smallest referrer key
// wins, which keeps transitive reports deterministic.
func (s *Snapshot) requirementFor(depKey string) string {
	best := ""
	bestFrom := ""
	for from, edges := range s.adj {
		req, ok := edges[depKey]
		if !ok {
			continue
		}
		if bestFrom == "" || from < bestFrom {
			bestFrom = from
			best = req
		}
	}
	return best
}
