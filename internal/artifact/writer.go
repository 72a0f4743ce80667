package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const filePattern = "eetest-*.yaml"

// WriteVariables stores vars as a standalone document for a target's runme.sh.
// The caller owns the returned file and must Remove it.
func WriteVariables(dir string, vars map[string]any) (string, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	return writeDocument(dir, vars)
}

// WritePlaybook stores a one-play playbook that runs role.
// The caller owns the returned file and must Remove it.
func WritePlaybook(dir, role string, vars map[string]any, mode Mode) (string, error) {
	return writeDocument(dir, []Play{BuildPlay(role, vars, mode)})
}

// Remove deletes an artifact. A file that is already gone is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove artifact %s: %w", path, err)
	}
	return nil
}

// Marshal renders a document the way artifacts are written to disk.
func Marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeDocument(dir string, doc any) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}

	f, err := os.CreateTemp(dir, filePattern)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close artifact: %w", err)
	}

	return f.Name(), nil
}
