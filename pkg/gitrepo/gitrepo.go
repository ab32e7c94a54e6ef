// Package gitrepo maintains the local cache of skill source repositories.
// Each named source maps to one git checkout under the cache directory. The
// cache is disposable: an existing checkout is hard-reset to the remote's
// default branch tip on every sync, discarding local modifications.
//
// All git operations run through the external git binary on the search
// path.
package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/antigravity-tools/antigravity-skills/pkg/logger"
)

// CommandError reports a git subprocess that exited non-zero, carrying its
// combined output for the user.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ") + " failed"
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Cache manages source checkouts under a single directory.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// RepoPath returns the checkout location for a named source.
func (c *Cache) RepoPath(name string) string {
	return filepath.Join(c.dir, name)
}

// Sync ensures the named repository is present and at the remote's default
// branch tip, cloning fresh or fetch-and-resetting an existing checkout.
// Any git failure is fatal to the caller's command.
func (c *Cache) Sync(ctx context.Context, name, url string) (string, error) {
	repoPath := c.RepoPath(name)
	log := logger.G(ctx).WithField("source", name)

	if _, err := os.Stat(repoPath); err == nil {
		log.WithField("path", repoPath).Debug("updating cached repository")
		if err := c.update(ctx, repoPath); err != nil {
			return "", err
		}
		return repoPath, nil
	}

	log.WithField("url", url).Debug("cloning repository")
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create cache directory")
	}
	if _, err := run(ctx, "", "clone", url, repoPath); err != nil {
		return "", err
	}

	return repoPath, nil
}

func (c *Cache) update(ctx context.Context, repoPath string) error {
	if _, err := run(ctx, repoPath, "fetch", "origin"); err != nil {
		return err
	}

	head := c.defaultBranchRef(ctx, repoPath)
	if _, err := run(ctx, repoPath, "reset", "--hard", head); err != nil {
		return err
	}
	return nil
}

// defaultBranchRef resolves the remote's default branch (origin/<branch>)
// instead of assuming origin/main. When the remote HEAD cannot be resolved
// the historical origin/main fallback is used.
func (c *Cache) defaultBranchRef(ctx context.Context, repoPath string) string {
	// refreshes origin/HEAD in case the remote's default branch moved
	_, _ = run(ctx, repoPath, "remote", "set-head", "origin", "--auto")

	head, err := run(ctx, repoPath, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil || head == "" {
		logger.G(ctx).WithError(err).Warn("could not resolve default branch, falling back to origin/main")
		return "origin/main"
	}
	return head
}

// run executes git with args in dir (the working directory is inherited
// when dir is empty) and returns trimmed combined output.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return "", &CommandError{Args: args, Output: output, Err: err}
	}
	return output, nil
}
