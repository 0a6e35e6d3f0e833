package deps

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects the output shape of a dependency listing.
type Format string

// Supported output formats.
const (
	FormatNames        Format = "names"          // bare display names
	FormatNamesWithReq Format = "names-with-req" // "name>=1.2" strings
	FormatTuples       Format = "tuples"         // (name, operator, version)
	FormatDetails      Format = "details"        // name + required + installed
)

// ParseFormat validates a format selector. Underscores are accepted in
// place of hyphens ("names_with_req"). It is meant to run before any
// traversal work, so an unrecognized selector fails fast with
// [ErrUnsupportedFormat].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ReplaceAll(s, "_", "-")); f {
	case FormatNames, FormatNamesWithReq, FormatTuples, FormatDetails:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Dependency is one resolved dependency of a query root.
type Dependency struct {
	Key             string // normalized package key
	Name            string // display package name
	RequiredVersion string // raw specifier, "" when unconstrained
}

// Requirement is the tuple form of a dependency: the first clause of its
// specifier split into operator and version. Multi-clause specifiers lose
// information in this form; use Dependency.RequiredVersion for full fidelity.
type Requirement struct {
	Name     string
	Operator string
	Version  string
}

// Transitive computes the full set of package keys reachable from root by
// following dependency edges. The root itself is excluded unless it is
// reachable via a cycle back to itself. A visited set guards against
// re-expansion, so traversal terminates on cyclic graphs and touches each
// edge once.
//
// Returns [ErrUnknownPackage] if root is not in the snapshot.
func (s *Snapshot) Transitive(root string) (map[string]bool, error) {
	key := NormalizeKey(root)
	if _, ok := s.info[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, key)
	}

	seen := make(map[string]bool)
	var walk func(k string)
	walk = func(k string) {
		for dep := range s.adj[k] {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(key)
	return seen, nil
}

// Dependencies resolves the dependencies of root, sorted by key.
//
// With transitive false, the result is the root's direct edges, each keeping
// its own edge's required version. With transitive true, the result is the
// full closure; the required version reported for each package is chosen by
// the smallest-referrer rule (see requirementFor).
//
// Returns [ErrUnknownPackage] if root, or a reached dependency key, has no
// info entry.
func (s *Snapshot) Dependencies(root string, transitive bool) ([]Dependency, error) {
	key := NormalizeKey(root)
	if _, ok := s.info[key]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, key)
	}

	reqs := make(map[string]string)
	if transitive {
		closure, err := s.Transitive(key)
		if err != nil {
			return nil, err
		}
		for dep := range closure {
			reqs[dep] = s.requirementFor(dep)
		}
	} else {
		for dep, req := range s.adj[key] {
			reqs[dep] = req
		}
	}

	keys := make([]string, 0, len(reqs))
	for dep := range reqs {
		keys = append(keys, dep)
	}
	slices.Sort(keys)

	out := make([]Dependency, 0, len(keys))
	for _, dep := range keys {
		info, ok := s.info[dep]
		if !ok {
			return nil, fmt.Errorf("%w: %s (referenced by an edge but never described)", ErrUnknownPackage, dep)
		}
		out = append(out, Dependency{Key: dep, Name: info.PackageName, RequiredVersion: reqs[dep]})
	}
	return out, nil
}

// Names returns the display names of root's dependencies.
func (s *Snapshot) Names(root string, transitive bool) ([]string, error) {
	resolved, err := s.Dependencies(root, transitive)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(resolved))
	for i, d := range resolved {
		out[i] = d.Name
	}
	return out, nil
}

// NamesWithReq returns "name" or "name>=1.2" strings for root's dependencies.
// The requirement suffix is omitted when the dependency is unconstrained.
func (s *Snapshot) NamesWithReq(root string, transitive bool) ([]string, error) {
	resolved, err := s.Dependencies(root, transitive)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(resolved))
	for i, d := range resolved {
		if d.RequiredVersion != "" {
			out[i] = d.Name + d.RequiredVersion
		} else {
			out[i] = d.Name
		}
	}
	return out, nil
}

// Tuples returns (name, operator, version) triples for root's dependencies.
// Operator and version are empty strings for unconstrained dependencies. For
// multi-clause specifiers only the first clause in textual order is kept.
func (s *Snapshot) Tuples(root string, transitive bool) ([]Requirement, error) {
	resolved, err := s.Dependencies(root, transitive)
	if err != nil {
		return nil, err
	}
	out := make([]Requirement, 0, len(resolved))
	for _, d := range resolved {
		op, ver, err := FirstClause(d.RequiredVersion)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Key, err)
		}
		out = append(out, Requirement{Name: d.Name, Operator: op, Version: ver})
	}
	return out, nil
}

// Detail is one record of a detailed dependency listing.
type Detail struct {
	PackageName      string `json:"package_name"`
	RequiredVersion  string `json:"required_version"`
	InstalledVersion string `json:"installed_version"`
}

// EvalFailure records a dependency whose version strings could not be
// evaluated during a details query.
type EvalFailure struct {
	Key string
	Err error
}

// DetailReport holds the outcome of a details query: the successfully
// evaluated records plus any per-package evaluation failures. One bad
// version string does not abort the batch; the caller decides what to do
// with the failures.
type DetailReport struct {
	Details  []Detail
	Failures []EvalFailure
}

// DetailOptions configures a details query.
type DetailOptions struct {
	IncludeTransitive bool // full closure instead of direct deps only
	OnlyProblematic   bool // keep only installed versions violating their requirement
}

// Details returns detailed records for root's dependencies. With
// OnlyProblematic set, only dependencies whose installed version fails its
// requirement are kept; unconstrained dependencies are never problematic.
//
// Structural errors (unknown root, inconsistent snapshot) abort the query;
// per-package version parse failures are collected in the report instead.
func (s *Snapshot) Details(root string, opts DetailOptions) (*DetailReport, error) {
	resolved, err := s.Dependencies(root, opts.IncludeTransitive)
	if err != nil {
		return nil, err
	}

	report := &DetailReport{}
	for _, d := range resolved {
		info := s.info[d.Key]
		rec := Detail{
			PackageName:      d.Name,
			RequiredVersion:  d.RequiredVersion,
			InstalledVersion: info.InstalledVersion,
		}
		if !opts.OnlyProblematic {
			report.Details = append(report.Details, rec)
			continue
		}
		if d.RequiredVersion == "" {
			continue
		}
		ok, err := Satisfies(info.InstalledVersion, d.RequiredVersion)
		if err != nil {
			report.Failures = append(report.Failures, EvalFailure{Key: d.Key, Err: err})
			continue
		}
		if !ok {
			report.Details = append(report.Details, rec)
		}
	}
	return report, nil
}
