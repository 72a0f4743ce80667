package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readPlays(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "---\n"))

	var plays []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &plays))
	return plays
}

func TestWriteVariablesProducesPlainDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := WriteVariables(dir, map[string]any{"aws_region": "us-east-1", "tiny_prefix": "abc"})
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
	require.True(t, strings.HasSuffix(path, ".yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, "us-east-1", doc["aws_region"])
	require.NotContains(t, doc, "hosts")
	require.NotContains(t, string(data), "gather_facts")
}

func TestWritePlaybookManagedTempDir(t *testing.T) {
	t.Parallel()

	path, err := WritePlaybook(t.TempDir(), "ec2_vpc", map[string]any{"resource_prefix": "ansible-test-1-ci"}, ModeManagedTempDir)
	require.NoError(t, err)

	plays := readPlays(t, path)
	require.Len(t, plays, 1)
	play := plays[0]
	require.Equal(t, "localhost", play["hosts"])
	require.Equal(t, false, play["gather_facts"])
	require.Equal(t, map[string]any{"resource_prefix": "ansible-test-1-ci"}, play["vars"])
	require.NotContains(t, play, "roles")

	tasks, ok := play["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 2)

	create := tasks[0].(map[string]any)
	require.Equal(t, "tmp_path", create["register"])
	require.Equal(t, map[string]any{"suffix": ".tf", "state": "directory"}, create["ansible.builtin.tempfile"])

	run := tasks[1].(map[string]any)
	require.Equal(t, "Execute ansible role 'ec2_vpc'", run["name"])
	require.Equal(t, map[string]any{"output_dir": "{{ tmp_path.path }}"}, run["vars"])

	block := run["block"].([]any)
	require.Len(t, block, 1)
	require.Equal(t, map[string]any{"name": "ec2_vpc"}, block[0].(map[string]any)["ansible.builtin.include_role"])

	always := run["always"].([]any)
	require.Len(t, always, 1)
	require.Equal(t,
		map[string]any{"state": "absent", "path": "{{ tmp_path.path }}"},
		always[0].(map[string]any)["ansible.builtin.file"],
	)
}

func TestWritePlaybookRoleMode(t *testing.T) {
	t.Parallel()

	path, err := WritePlaybook(t.TempDir(), "k8s_info", nil, ModeRole)
	require.NoError(t, err)

	plays := readPlays(t, path)
	require.Len(t, plays, 1)
	play := plays[0]
	require.Equal(t, false, play["gather_facts"])
	require.Equal(t, []any{map[string]any{"role": "k8s_info"}}, play["roles"])
	require.NotContains(t, play, "vars")
	require.NotContains(t, play, "tasks")
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	path, err := WriteVariables(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, Remove(path))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	require.NoError(t, Remove(path))
}

func TestWriteFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := WriteVariables(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "create artifact")
}

func TestModeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "managed-tempdir", ModeManagedTempDir.String())
	require.Equal(t, "role", ModeRole.String())
	require.Equal(t, "mode(9)", Mode(9).String())
}
