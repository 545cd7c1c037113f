// Package git reads source revision information with go-git so packaged
// payloads can record which checkout produced them.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Common Git errors
var (
	ErrNotAGitRepo = errors.New("not a git repository")
	ErrNoCommits   = errors.New("repository has no commits")
)

// Client reads the repository containing a path.
type Client struct {
	path string // Any path inside the work tree
}

// NewClient creates a Git client for the repository containing path.
// Parent directories are searched for .git.
func NewClient(path string) *Client {
	return &Client{
		path: path,
	}
}

func (c *Client) open(ctx context.Context) (*gogit.Repository, error) {
	// Check context cancellation
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(c.path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepo, c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// IsGitRepo reports whether path is inside a git work tree.
func (c *Client) IsGitRepo(ctx context.Context) (bool, error) {
	_, err := c.open(ctx)
	if errors.Is(err, ErrNotAGitRepo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetHeadCommit returns the commit hash of HEAD using go-git.
func (c *Client) GetHeadCommit(ctx context.Context) (string, error) {
	repo, err := c.open(ctx)
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", ErrNoCommits
	}
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	return ref.Hash().String(), nil
}

// IsClean reports whether the work tree has no staged, modified or
// untracked files.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	repo, err := c.open(ctx)
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}

	return status.IsClean(), nil
}

// Revision returns the HEAD commit, suffixed with "-dirty" when the work
// tree has local changes.
func (c *Client) Revision(ctx context.Context) (string, error) {
	head, err := c.GetHeadCommit(ctx)
	if err != nil {
		return "", err
	}

	clean, err := c.IsClean(ctx)
	if err != nil {
		return "", err
	}
	if !clean {
		head += "-dirty"
	}

	return head, nil
}
