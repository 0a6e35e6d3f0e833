package deps

import (
	"errors"
	"reflect"
	"testing"
)

// chainRecords builds A -> B (">1.2", installed 1.3) -> C ("==0.1", installed 0.1).
func chainRecords() []RawRecord {
	return []RawRecord{
		{
			Package: RawPackage{Key: "a", PackageName: "A", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{
				{Key: "b", PackageName: "B", InstalledVersion: "1.3", RequiredVersion: ">1.2"},
			},
		},
		{
			Package: RawPackage{Key: "b", PackageName: "B", InstalledVersion: "1.3"},
			Dependencies: []RawDependency{
				{Key: "c", PackageName: "C", InstalledVersion: "0.1", RequiredVersion: "==0.1"},
			},
		},
		{
			Package: RawPackage{Key: "c", PackageName: "C", InstalledVersion: "0.1"},
		},
	}
}

// cycleRecords builds a -> b -> a.
func cycleRecords() []RawRecord {
	return []RawRecord{
		{
			Package:      RawPackage{Key: "a", PackageName: "a", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{{Key: "b", PackageName: "b", InstalledVersion: "2.0", RequiredVersion: ">=1.0"}},
		},
		{
			Package:      RawPackage{Key: "b", PackageName: "b", InstalledVersion: "2.0"},
			Dependencies: []RawDependency{{Key: "a", PackageName: "a", InstalledVersion: "1.0", RequiredVersion: ""}},
		},
	}
}

func mustSnapshot(t *testing.T, records []RawRecord) *Snapshot {
	t.Helper()
	snap, err := Normalize(records)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return snap
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"names", "names-with-req", "tuples", "details"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q): %v", valid, err)
		}
	}
	// Underscore spelling is an accepted alias.
	if f, err := ParseFormat("names_with_req"); err != nil || f != FormatNamesWithReq {
		t.Errorf("ParseFormat(names_with_req) = %q, %v, want %q", f, err, FormatNamesWithReq)
	}
	if _, err := ParseFormat("csv"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(csv) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTransitiveClosure(t *testing.T) {
	snap := mustSnapshot(t, chainRecords())

	closure, err := snap.Transitive("a")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"b": true, "c": true}
	if !reflect.DeepEqual(closure, want) {
		t.Errorf("closure = %v, want %v", closure, want)
	}

	// Acyclic: root excludes itself.
	if closure["a"] {
		t.Error("root should not be in its own closure on an acyclic graph")
	}
}

func TestTransitiveCycle(t *testing.T) {
	snap := mustSnapshot(t, cycleRecords())

	closure, err := snap.Transitive("a")
	if err != nil {
		t.Fatal(err)
	}
	// a is reachable from itself through b, so it IS included.
	want := map[string]bool{"a": true, "b": true}
	if !reflect.DeepEqual(closure, want) {
		t.Errorf("closure = %v, want %v", closure, want)
	}
}

func TestTransitiveUnknownRoot(t *testing.T) {
	snap := mustSnapshot(t, chainRecords())
	if _, err := snap.Transitive("nope"); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("err = %v, want ErrUnknownPackage", err)
	}
}

func TestNames(t *testing.T) {
	snap := mustSnapshot(t, chainRecords())

	tests := []struct {
		name       string
		transitive bool
		want       []string
	}{
		{"transitive", true, []string{"B", "C"}},
		{"direct only", false, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snap.Names("a", tt.transitive)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNamesWithReq(t *testing.T) {
	snap := mustSnapshot(t, bs4Records())

	got, err := snap.NamesWithReq("beautifulsoup4", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"soupsieve>1.2", "typing_extensions>=4.0.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NamesWithReq = %v, want %v", got, want)
	}

	// Unconstrained dependencies render as the bare name.
	got, err = snap.NamesWithReq("bs4", false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"beautifulsoup4"}) {
		t.Errorf("NamesWithReq(bs4) = %v, want bare name", got)
	}
}

func TestTuples(t *testing.T) {
	snap := mustSnapshot(t, bs4Records())

	got, err := snap.Tuples("beautifulsoup4", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []Requirement{
		{Name: "soupsieve", Operator: ">", Version: "1.2"},
		{Name: "typing_extensions", Operator: ">=", Version: "4.0.0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tuples = %v, want %v", got, want)
	}

	got, err = snap.Tuples("bs4", false)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Operator != "" || got[0].Version != "" {
		t.Errorf("unconstrained tuple = %+v, want empty operator/version", got[0])
	}
}

func TestDetails(t *testing.T) {
	snap := mustSnapshot(t, chainRecords())

	report, err := snap.Details("a", DetailOptions{IncludeTransitive: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []Detail{
		{PackageName: "B", RequiredVersion: ">1.2", InstalledVersion: "1.3"},
		{PackageName: "C", RequiredVersion: "==0.1", InstalledVersion: "0.1"},
	}
	if !reflect.DeepEqual(report.Details, want) {
		t.Errorf("Details = %v, want %v", report.Details, want)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Failures = %v, want none", report.Failures)
	}
}

func TestDetailsOnlyProblematic(t *testing.T) {
	records := []RawRecord{
		{
			Package: RawPackage{Key: "root", PackageName: "root", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{
				{Key: "ok", PackageName: "ok", InstalledVersion: "1.5", RequiredVersion: ">=1.0"},
				{Key: "bad", PackageName: "bad", InstalledVersion: "2.1", RequiredVersion: "<2.0"},
				{Key: "free", PackageName: "free", InstalledVersion: "9.9", RequiredVersion: "Any"},
			},
		},
	}
	snap := mustSnapshot(t, records)

	report, err := snap.Details("root", DetailOptions{IncludeTransitive: true, OnlyProblematic: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []Detail{{PackageName: "bad", RequiredVersion: "<2.0", InstalledVersion: "2.1"}}
	if !reflect.DeepEqual(report.Details, want) {
		t.Errorf("Details = %v, want only the violating record", report.Details)
	}
}

func TestDetailsIsolatesBadVersions(t *testing.T) {
	records := []RawRecord{
		{
			Package: RawPackage{Key: "root", PackageName: "root", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{
				{Key: "good", PackageName: "good", InstalledVersion: "0.5", RequiredVersion: ">=1.0"},
				{Key: "mangled", PackageName: "mangled", InstalledVersion: "not@a@version", RequiredVersion: ">=1.0"},
			},
		},
	}
	snap := mustSnapshot(t, records)

	report, err := snap.Details("root", DetailOptions{OnlyProblematic: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Details) != 1 || report.Details[0].PackageName != "good" {
		t.Errorf("Details = %v, want the violating good record", report.Details)
	}
	if len(report.Failures) != 1 || report.Failures[0].Key != "mangled" {
		t.Fatalf("Failures = %v, want one failure for mangled", report.Failures)
	}
	if !errors.Is(report.Failures[0].Err, ErrInvalidVersion) {
		t.Errorf("failure err = %v, want ErrInvalidVersion", report.Failures[0].Err)
	}
}

// Multiple referrers with different requirements: the smallest referrer key
// decides which requirement is reported for the transitive listing.
func TestTransitiveRequirementDeterministic(t *testing.T) {
	records := []RawRecord{
		{
			Package: RawPackage{Key: "root", PackageName: "root", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{
				{Key: "mid1", PackageName: "mid1", InstalledVersion: "1.0", RequiredVersion: ""},
				{Key: "mid2", PackageName: "mid2", InstalledVersion: "1.0", RequiredVersion: ""},
			},
		},
		{
			Package:      RawPackage{Key: "mid1", PackageName: "mid1", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{{Key: "shared", PackageName: "shared", InstalledVersion: "3.0", RequiredVersion: ">=1.0"}},
		},
		{
			Package:      RawPackage{Key: "mid2", PackageName: "mid2", InstalledVersion: "1.0"},
			Dependencies: []RawDependency{{Key: "shared", PackageName: "shared", InstalledVersion: "3.0", RequiredVersion: ">=2.0"}},
		},
		{
			Package: RawPackage{Key: "shared", PackageName: "shared", InstalledVersion: "3.0"},
		},
	}
	snap := mustSnapshot(t, records)

	for range 10 {
		resolved, err := snap.Dependencies("root", true)
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range resolved {
			if d.Key == "shared" && d.RequiredVersion != ">=1.0" {
				t.Fatalf("shared requirement = %q, want >=1.0 (edge from mid1)", d.RequiredVersion)
			}
		}
	}
}
