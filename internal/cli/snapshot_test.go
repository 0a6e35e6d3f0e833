package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const treeJSON = `[
  {
    "package": {"key": "beautifulsoup4", "package_name": "beautifulsoup4", "installed_version": "4.12.3"},
    "dependencies": [
      {"key": "soupsieve", "package_name": "soupsieve", "installed_version": "2.5", "required_version": ">1.2"}
    ]
  }
]`

func TestSnapshotFromInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(treeJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := snapshotOpts{input: path}
	snap, err := opts.load(context.Background(), "beautifulsoup4")
	if err != nil {
		t.Fatal(err)
	}

	names, err := snap.Names("beautifulsoup4", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "soupsieve" {
		t.Errorf("names = %v", names)
	}
}

func TestSnapshotFromInputFileMissing(t *testing.T) {
	opts := snapshotOpts{input: filepath.Join(t.TempDir(), "nope.json")}
	if _, err := opts.load(context.Background(), "x"); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
