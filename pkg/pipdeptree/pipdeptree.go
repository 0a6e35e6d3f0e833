// Package pipdeptree obtains raw dependency records from the pipdeptree
// command-line tool.
//
// pipdeptree inspects the installed packages of the active Python
// environment and prints their dependency relations as JSON. This package
// shells out to it, decodes the output into [deps.RawRecord] values, and
// maps the tool's failure modes onto distinct errors. The records are
// consumed as-is; all graph semantics live in [deps].
package pipdeptree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pypeek/pypeek/pkg/deps"
)

// DefaultBinary is the executable name used when Source.Binary is empty.
const DefaultBinary = "pipdeptree"

// Sentinel errors for the pipdeptree invocation.
var (
	// ErrNotInstalled is returned when the pipdeptree executable cannot be
	// found. Install it with `pip install pipdeptree`.
	ErrNotInstalled = errors.New("pipdeptree is not installed")

	// ErrPackageNotInstalled is returned when pipdeptree produces no output
	// for the requested package, meaning it is not installed in the
	// environment.
	ErrPackageNotInstalled = errors.New("package is not installed")

	// ErrToolFailed is returned when pipdeptree exits non-zero.
	ErrToolFailed = errors.New("pipdeptree failed")
)

// Source runs pipdeptree and decodes its JSON output.
// The zero value is ready to use.
type Source struct {
	// Binary overrides the pipdeptree executable path. Empty means
	// DefaultBinary resolved via PATH.
	Binary string
}

func (s *Source) binary() string {
	if s.Binary != "" {
		return s.Binary
	}
	return DefaultBinary
}

// Tree returns the raw records for pkg and everything reachable from it
// (`pipdeptree --packages <pkg> --json`).
//
// Returns [ErrPackageNotInstalled] when the package is not installed,
// [ErrNotInstalled] when pipdeptree itself is missing, and [ErrToolFailed]
// (with stderr attached) when the tool exits non-zero.
func (s *Source) Tree(ctx context.Context, pkg string) ([]deps.RawRecord, error) {
	out, err := s.run(ctx, "--packages", pkg, "--json")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotInstalled, pkg)
	}
	return Decode(bytes.NewReader(out))
}

// Environment returns the raw records for every installed package
// (`pipdeptree --json`).
func (s *Source) Environment(ctx context.Context) ([]deps.RawRecord, error) {
	out, err := s.run(ctx, "--json")
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(out))
}

// Snapshot is a convenience that fetches the tree for pkg and normalizes it
// in one step.
func (s *Source) Snapshot(ctx context.Context, pkg string) (*deps.Snapshot, error) {
	records, err := s.Tree(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return deps.Normalize(records)
}

func (s *Source) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.binary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: install it with `pip install pipdeptree`", ErrNotInstalled)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.String()
			}
			return nil, fmt.Errorf("%w: %s", ErrToolFailed, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Decode reads pipdeptree JSON output into raw records.
func Decode(r io.Reader) ([]deps.RawRecord, error) {
	var records []deps.RawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode pipdeptree output: %w", err)
	}
	return records, nil
}
