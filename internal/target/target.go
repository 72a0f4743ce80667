package target

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// AliasesFile declares skip and timing attributes for a target.
	AliasesFile = "aliases"
	// EntrypointFile is a target-provided script that replaces playbook generation.
	EntrypointFile = "runme.sh"
)

// Target is one integration test case directory.
type Target struct {
	Name       string
	Path       string
	Aliases    []string
	HasAliases bool
	Entrypoint string
}

// HasEntrypoint reports whether the target ships its own runme.sh.
func (t Target) HasEntrypoint() bool {
	return t.Entrypoint != ""
}

// Load inspects a single target directory.
func Load(path string) (Target, error) {
	t := Target{Name: filepath.Base(path), Path: path}

	data, err := os.ReadFile(filepath.Join(path, AliasesFile))
	switch {
	case err == nil:
		t.HasAliases = true
		t.Aliases = strings.Split(string(data), "\n")
	case !errors.Is(err, fs.ErrNotExist):
		return Target{}, fmt.Errorf("read aliases for %s: %w", t.Name, err)
	}

	entrypoint := filepath.Join(path, EntrypointFile)
	if info, err := os.Stat(entrypoint); err == nil && !info.IsDir() {
		t.Entrypoint = entrypoint
	}

	return t, nil
}

// Discover lists the targets under root in lexical order. Non-directories are ignored.
func Discover(root string) ([]Target, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		t, err := Load(filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	return targets, nil
}

// ParseTargets splits a comma-separated --targets value, trimming blanks.
func ParseTargets(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
