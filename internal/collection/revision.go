package collection

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision identifies the checkout of the collection under test.
type Revision struct {
	Branch string
	Commit string
	Dirty  bool
}

func (r Revision) String() string {
	short := r.Commit
	if len(short) > 12 {
		short = short[:12]
	}
	s := short
	if r.Branch != "" {
		s = fmt.Sprintf("%s@%s", r.Branch, short)
	}
	if r.Dirty {
		s += " (dirty)"
	}
	return s
}

// ErrNotRepository is returned when the collection is not inside a git checkout.
var ErrNotRepository = errors.New("collection is not a git repository")

// Describe reports the git revision of the checkout containing path.
func Describe(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open collection repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err == nil {
		if status, err := wt.Status(); err == nil {
			rev.Dirty = !status.IsClean()
		}
	}

	return rev, nil
}
