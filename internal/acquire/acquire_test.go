package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGit replaces runGit for one test. Tests using it must not run in parallel.
func stubGit(t *testing.T, fn func(ctx context.Context, args ...string) error) *[][]string {
	t.Helper()
	var calls [][]string
	orig := runGit
	runGit = func(ctx context.Context, args ...string) error {
		calls = append(calls, args)
		return fn(ctx, args...)
	}
	t.Cleanup(func() { runGit = orig })
	return &calls
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locator string
		want    bool
	}{
		{"https://github.com/user/project", true},
		{"http://example.com/repo.git", true},
		{"ssh://git@host/repo", true},
		{"./local/project", false},
		{"/abs/path", false},
		{"github.com/user/project", false},
	}
	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRemote(tt.locator))
		})
	}
}

func TestDestination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := Destination("https://github.com/user/project/", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project"), got)

	got, err = Destination("https://github.com/user/project.git", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project.git"), got)

	_, err = Destination("https://", dir)
	assert.Error(t, err)
}

func TestAcquireLocalPathUnchanged(t *testing.T) {
	t.Parallel()

	got, err := Acquire(context.Background(), "some/local/dir", Options{})
	require.NoError(t, err)
	assert.Equal(t, "some/local/dir", got)
}

func TestAcquireClones(t *testing.T) {
	dir := t.TempDir()
	calls := stubGit(t, func(_ context.Context, args ...string) error {
		return os.MkdirAll(args[len(args)-1], 0o755)
	})

	got, err := Acquire(context.Background(), "https://github.com/user/project", Options{Dir: dir, Depth: 1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project"), got)
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"clone", "--depth", "1", "https://github.com/user/project", got}, (*calls)[0])
}

func TestAcquireIdempotent(t *testing.T) {
	dir := t.TempDir()
	calls := stubGit(t, func(_ context.Context, args ...string) error {
		return os.MkdirAll(args[len(args)-1], 0o755)
	})

	locator := "https://github.com/user/project"
	first, err := Acquire(context.Background(), locator, Options{Dir: dir})
	require.NoError(t, err)
	second, err := Acquire(context.Background(), locator, Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, *calls, 1, "an existing destination is reused without fetching")
}

func TestAcquireFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("repository not found")
	stubGit(t, func(context.Context, ...string) error { return boom })

	_, err := Acquire(context.Background(), "https://github.com/user/missing", Options{Dir: dir})
	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, filepath.Join(dir, "missing"), acqErr.Destination)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "https://github.com/user/missing")
}
