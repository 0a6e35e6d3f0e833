package deps

import (
	"fmt"
	"regexp"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

var clauseRE = regexp.MustCompile(`^\s*(===|~=|==|!=|<=|>=|<|>)\s*(\S.*?)\s*$`)

// Satisfies reports whether an installed version satisfies a requirement
// specifier. The specifier is a comma-separated list of PEP 440 clauses
// (">=1.2,<2.0"), all of which must hold. An empty specifier always
// satisfies.
//
// Pre-release and dev versions are excluded from plain range clauses: "2.0a1"
// does not satisfy "<2.0" even though it orders before 2.0 (see
// [CompareVersions]). A clause that itself names a pre-release, such as
// "==2.0a1", admits them. This is PEP 440's default specifier matching, the
// same behavior as Python's packaging.SpecifierSet.
//
// Returns [ErrInvalidSpecifier] if spec cannot be parsed and
// [ErrInvalidVersion] if installed cannot be parsed.
func Satisfies(installed, spec string) (bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return true, nil
	}
	specs, err := pep440.NewSpecifiers(spec)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidSpecifier, spec, err)
	}
	v, err := pep440.Parse(installed)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, installed, err)
	}
	return specs.Check(v), nil
}

// FirstClause splits a specifier into the operator and version of its first
// clause in textual order. Both are empty strings for an empty specifier.
// Later clauses of a multi-clause specifier are dropped; this is the
// documented lossy tuple form.
//
// Returns [ErrInvalidSpecifier] if the specifier is non-empty and does not
// parse as a clause list.
func FirstClause(spec string) (op, version string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", nil
	}
	// Validate the whole specifier first so a well-formed first clause
	// cannot hide a malformed tail.
	if _, perr := pep440.NewSpecifiers(spec); perr != nil {
		return "", "", fmt.Errorf("%w: %q: %v", ErrInvalidSpecifier, spec, perr)
	}
	first := spec
	if i := strings.Index(spec, ","); i >= 0 {
		first = spec[:i]
	}
	m := clauseRE.FindStringSubmatch(first)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSpecifier, spec)
	}
	return m[1], m[2], nil
}

// CompareVersions compares two PEP 440 version strings, returning -1, 0, or
// 1. Pre-release and dev markers sort before the corresponding final
// release, per PEP 440 ordering.
func CompareVersions(a, b string) (int, error) {
	va, err := pep440.Parse(a)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, a, err)
	}
	vb, err := pep440.Parse(b)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, b, err)
	}
	return va.Compare(vb), nil
}
