package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Git is the version-control surface the development and PR stages need.
// Branch creation happens only after generated files are on disk.
type Git interface {
	EnsureRepo(root string) error
	CreateBranch(root, name string) error
	CommitAll(root, message string) (string, error)
}

// GoGit implements Git with go-git, no git binary required.
type GoGit struct{}

func (GoGit) open(root string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: false})
}

// EnsureRepo initializes a repository at root when none exists.
func (g GoGit) EnsureRepo(root string) error {
	if _, err := g.open(root); err == nil {
		return nil
	}
	if _, err := git.PlainInit(root, false); err != nil {
		return fmt.Errorf("git init %s: %w", root, err)
	}
	return nil
}

// CreateBranch creates and checks out a branch. An existing branch with the
// same name is checked out as-is.
func (g GoGit) CreateBranch(root, name string) error {
	r, err := g.open(root)
	if err != nil {
		return fmt.Errorf("git open %s: %w", root, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("git worktree: %w", err)
	}

	ref := plumbing.NewBranchReferenceName(name)
	err = wt.Checkout(&git.CheckoutOptions{Branch: ref, Create: true, Keep: true})
	if errors.Is(err, git.ErrBranchExists) {
		err = wt.Checkout(&git.CheckoutOptions{Branch: ref, Keep: true})
	}
	if err != nil {
		// An unborn HEAD has nothing to branch from yet; the first commit
		// will land on this branch via HEAD.
		head := plumbing.NewSymbolicReference(plumbing.HEAD, ref)
		if setErr := r.Storer.SetReference(head); setErr == nil {
			return nil
		}
		return fmt.Errorf("git checkout -b %s: %w", name, err)
	}
	return nil
}

// CommitAll stages everything and commits, returning the commit hash.
func (g GoGit) CommitAll(root, message string) (string, error) {
	r, err := g.open(root)
	if err != nil {
		return "", fmt.Errorf("git open %s: %w", root, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", fmt.Errorf("git worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("git add: %w", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "forge",
			Email: "forge@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("git commit: %w", err)
	}
	return hash.String(), nil
}
