package deps

import (
	"errors"
	"testing"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		spec      string
		want      bool
	}{
		{"empty spec always satisfies", "0.0.1", "", true},
		{"simple lower bound", "1.5", ">=1.0", true},
		{"violated upper bound", "2.1", "<2.0", false},
		{"multi clause all hold", "1.5", ">=1.2,<2.0", true},
		{"multi clause one fails", "2.5", ">=1.2,<2.0", false},
		{"exact match", "0.1", "==0.1", true},
		{"exact mismatch", "0.2", "==0.1", false},
		{"not equal", "1.0", "!=1.0", false},
		{"compatible release ok", "1.4.7", "~=1.4.2", true},
		{"compatible release minor bump", "1.5", "~=1.4.2", false},
		{"prerelease excluded from plain range", "2.0a1", "<2.0", false},
		{"prerelease accepted by its own pin", "2.0a1", "==2.0a1", true},
		{"strict greater", "1.3", ">1.2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Satisfies(tt.installed, tt.spec)
			if err != nil {
				t.Fatalf("Satisfies(%q, %q): %v", tt.installed, tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.installed, tt.spec, got, tt.want)
			}
		})
	}
}

func TestSatisfiesErrors(t *testing.T) {
	if _, err := Satisfies("1.0", ">>nope<<"); !errors.Is(err, ErrInvalidSpecifier) {
		t.Errorf("bad spec err = %v, want ErrInvalidSpecifier", err)
	}
	if _, err := Satisfies("not@a@version", ">=1.0"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("bad version err = %v, want ErrInvalidVersion", err)
	}
}

func TestFirstClause(t *testing.T) {
	tests := []struct {
		spec    string
		wantOp  string
		wantVer string
	}{
		{"", "", ""},
		{">=1.2.0", ">=", "1.2.0"},
		{"<0.5", "<", "0.5"},
		{">=1.2,<2.0", ">=", "1.2"},
		{"~=1.4.2", "~=", "1.4.2"},
		{"!=1.0, >=0.5", "!=", "1.0"},
		{"== 2.1", "==", "2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			op, ver, err := FirstClause(tt.spec)
			if err != nil {
				t.Fatalf("FirstClause(%q): %v", tt.spec, err)
			}
			if op != tt.wantOp || ver != tt.wantVer {
				t.Errorf("FirstClause(%q) = (%q, %q), want (%q, %q)", tt.spec, op, ver, tt.wantOp, tt.wantVer)
			}
		})
	}
}

func TestFirstClauseInvalid(t *testing.T) {
	if _, _, err := FirstClause("banana"); !errors.Is(err, ErrInvalidSpecifier) {
		t.Errorf("err = %v, want ErrInvalidSpecifier", err)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "2.0", -1},
		{"2.0", "1.0", 1},
		{"1.0", "1.0", 0},
		{"1.0.0", "1.0", 0},
		{"2.0a1", "2.0", -1},
		{"1.10", "1.9", 1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.a, tt.b)
		if err != nil {
			t.Fatalf("CompareVersions(%q, %q): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if _, err := CompareVersions("bad!", "1.0"); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("err = %v, want ErrInvalidVersion", err)
	}
}
