package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installFakeGit puts a git stub on PATH that records its invocations and
// answers the subcommands Sync uses. Failing subcommands are listed in
// failOn.
func installFakeGit(t *testing.T, failOn ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake git stub requires a POSIX shell")
	}

	binDir := t.TempDir()
	logFile := filepath.Join(binDir, "invocations.log")

	var failChecks strings.Builder
	for _, sub := range failOn {
		failChecks.WriteString(`if [ "$1" = "` + sub + `" ]; then echo "simulated ` + sub + ` failure" >&2; exit 1; fi` + "\n")
	}

	script := `#!/bin/sh
echo "$@" >> "` + logFile + `"
` + failChecks.String() + `
case "$1" in
  clone)
    mkdir -p "$3/.git"
    ;;
  symbolic-ref)
    echo "origin/trunk"
    ;;
esac
exit 0
`
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "git"), []byte(script), 0o755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	return logFile
}

func invocations(t *testing.T, logFile string) []string {
	t.Helper()
	data, err := os.ReadFile(logFile)
	if err != nil {
		return nil
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestSyncClonesFreshCheckout(t *testing.T) {
	logFile := installFakeGit(t)
	cache := NewCache(filepath.Join(t.TempDir(), "cache"))

	repoPath, err := cache.Sync(context.Background(), "acme", "https://example.com/acme/skills")
	require.NoError(t, err)
	assert.Equal(t, cache.RepoPath("acme"), repoPath)

	calls := invocations(t, logFile)
	require.Len(t, calls, 1)
	assert.Equal(t, "clone https://example.com/acme/skills "+repoPath, calls[0])
}

func TestSyncResetsExistingCheckout(t *testing.T) {
	logFile := installFakeGit(t)
	cacheDir := t.TempDir()
	cache := NewCache(cacheDir)
	require.NoError(t, os.MkdirAll(cache.RepoPath("acme"), 0o755))

	repoPath, err := cache.Sync(context.Background(), "acme", "https://example.com/acme/skills")
	require.NoError(t, err)
	assert.Equal(t, cache.RepoPath("acme"), repoPath)

	calls := invocations(t, logFile)
	require.Len(t, calls, 4)
	assert.Equal(t, "fetch origin", calls[0])
	assert.Equal(t, "remote set-head origin --auto", calls[1])
	assert.Equal(t, "symbolic-ref --short refs/remotes/origin/HEAD", calls[2])
	assert.Equal(t, "reset --hard origin/trunk", calls[3])
}

func TestSyncSurfacesCloneFailure(t *testing.T) {
	installFakeGit(t, "clone")
	cache := NewCache(filepath.Join(t.TempDir(), "cache"))

	_, err := cache.Sync(context.Background(), "acme", "https://example.com/acme/skills")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, []string{"clone", "https://example.com/acme/skills", cache.RepoPath("acme")}, cmdErr.Args)
	assert.Contains(t, cmdErr.Output, "simulated clone failure")
	assert.Contains(t, err.Error(), "simulated clone failure")
}

func TestSyncSurfacesFetchFailure(t *testing.T) {
	installFakeGit(t, "fetch")
	cache := NewCache(t.TempDir())
	require.NoError(t, os.MkdirAll(cache.RepoPath("acme"), 0o755))

	_, err := cache.Sync(context.Background(), "acme", "https://example.com/acme/skills")
	require.Error(t, err)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, []string{"fetch", "origin"}, cmdErr.Args)
}

func TestSyncFallsBackToOriginMain(t *testing.T) {
	logFile := installFakeGit(t, "symbolic-ref")
	cache := NewCache(t.TempDir())
	require.NoError(t, os.MkdirAll(cache.RepoPath("acme"), 0o755))

	_, err := cache.Sync(context.Background(), "acme", "https://example.com/acme/skills")
	require.NoError(t, err)

	calls := invocations(t, logFile)
	assert.Equal(t, "reset --hard origin/main", calls[len(calls)-1])
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Args: []string{"fetch", "origin"}, Output: "fatal: no remote", Err: errors.New("exit status 128")}
	assert.Equal(t, "git fetch origin failed: fatal: no remote", err.Error())
	assert.EqualError(t, err.Unwrap(), "exit status 128")

	bare := &CommandError{Args: []string{"clone"}}
	assert.Equal(t, "git clone failed", bare.Error())
}
