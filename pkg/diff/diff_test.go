package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinesIdenticalContent(t *testing.T) {
	t.Parallel()

	content := []byte("clusters:\n- name: kind\n")
	require.Empty(t, Lines(content, content, "before", "after"))
}

func TestLinesSingleLineChange(t *testing.T) {
	t.Parallel()

	before := []byte("clusters:\n- cluster:\n    server: https://127.0.0.1:38211\n  name: kind-kind\n")
	after := []byte("clusters:\n- cluster:\n    server: https://172.18.0.2:6443\n  name: kind-kind\n")

	out := Lines(before, after, "kubeconfig", "kubeconfig (rewritten)")
	require.Equal(t, strings.Join([]string{
		"--- kubeconfig",
		"+++ kubeconfig (rewritten)",
		"-    server: https://127.0.0.1:38211",
		"+    server: https://172.18.0.2:6443",
		"",
	}, "\n"), out)

	added, removed := Changed(out)
	require.Equal(t, 1, added)
	require.Equal(t, 1, removed)
}

func TestLinesOmitsUnchangedLines(t *testing.T) {
	t.Parallel()

	before := []byte("users:\n- name: kind\n  user:\n    token: s3cr3t\nserver: old\n")
	after := []byte("users:\n- name: kind\n  user:\n    token: s3cr3t\nserver: new\n")

	out := Lines(before, after, "a", "b")
	require.NotContains(t, out, "s3cr3t")
	require.NotContains(t, out, "users:")
	require.Contains(t, out, "-server: old\n")
	require.Contains(t, out, "+server: new\n")
}

func TestLinesMissingTrailingNewline(t *testing.T) {
	t.Parallel()

	out := Lines([]byte("a\nb"), []byte("a\nc"), "x", "y")
	require.Contains(t, out, "-b\n")
	require.Contains(t, out, "+c\n")
}

func TestLinesTruncatesLargeDiffs(t *testing.T) {
	t.Parallel()

	var before, after strings.Builder
	for i := 0; i < maxDiffLines; i++ {
		fmt.Fprintf(&before, "old %d\n", i)
		fmt.Fprintf(&after, "new %d\n", i)
	}

	out := Lines([]byte(before.String()), []byte(after.String()), "x", "y")
	require.True(t, strings.HasSuffix(out, truncateMessage+"\n"))
	require.Len(t, strings.Split(strings.TrimSuffix(out, "\n"), "\n"), maxDiffLines+1)
}
