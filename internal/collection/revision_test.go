package collection

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func initCollection(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte("namespace: amazon\nname: aws\n"), 0o644))
	_, err = wt.Add("galaxy.yml")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "CI",
			Email: "ci@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestDescribeCleanCheckout(t *testing.T) {
	t.Parallel()

	dir, hash := initCollection(t)
	targets := filepath.Join(dir, "tests", "integration", "targets")
	require.NoError(t, os.MkdirAll(targets, 0o755))

	rev, err := Describe(targets)
	require.NoError(t, err)
	require.Equal(t, hash, rev.Commit)
	require.Equal(t, "master", rev.Branch)
	require.False(t, rev.Dirty)
	require.Equal(t, "master@"+hash[:12], rev.String())
}

func TestDescribeDirtyCheckout(t *testing.T) {
	t.Parallel()

	dir, _ := initCollection(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte("changed"), 0o644))

	rev, err := Describe(dir)
	require.NoError(t, err)
	require.True(t, rev.Dirty)
	require.Contains(t, rev.String(), "(dirty)")
}

func TestDescribeOutsideRepository(t *testing.T) {
	t.Parallel()

	_, err := Describe(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
}

func TestRevisionStringDetached(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0123456789ab", Revision{Commit: "0123456789abcdef"}.String())
}
