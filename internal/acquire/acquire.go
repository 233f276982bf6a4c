// Package acquire resolves a corpus locator to a local directory, cloning
// remote repositories when needed.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var remotePrefixes = []string{"http://", "https://", "ssh://"}

// AcquisitionError reports a failed remote fetch. It is fatal for a run.
type AcquisitionError struct {
	Locator     string
	Destination string
	Err         error
}

func (e *AcquisitionError) Error() string {
	if e.Destination == "" {
		return fmt.Sprintf("acquiring %s: %v", e.Locator, e.Err)
	}
	return fmt.Sprintf("acquiring %s into %s: %v", e.Locator, e.Destination, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Options configures Acquire.
type Options struct {
	// Dir is the parent of clone destinations; empty means the working directory.
	Dir string
	// Depth > 0 makes a shallow clone.
	Depth  int
	Logger *zerolog.Logger
}

// runGit is injectable in tests.
var runGit = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsRemote reports whether locator names a remote repository.
func IsRemote(locator string) bool {
	for _, p := range remotePrefixes {
		if strings.HasPrefix(locator, p) {
			return true
		}
	}
	return false
}

// Destination returns where a remote locator is cloned: the last path
// segment of the locator under dir (or the working directory).
func Destination(locator, dir string) (string, error) {
	trimmed := strings.Trim(locator, "/")
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if name == "" || name == "." || name == ".." || strings.HasSuffix(trimmed, ":") {
		return "", fmt.Errorf("cannot derive a directory name from %q", locator)
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	return filepath.Join(dir, name), nil
}

// Acquire returns the local root for locator. Local paths are returned
// unchanged. Remote locators are cloned once; an existing destination is
// reused as-is without touching the network.
func Acquire(ctx context.Context, locator string, opts Options) (string, error) {
	if !IsRemote(locator) {
		return locator, nil
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	dest, err := Destination(locator, opts.Dir)
	if err != nil {
		return "", &AcquisitionError{Locator: locator, Err: err}
	}

	if _, err := os.Stat(dest); err == nil {
		log.Info().Str("destination", dest).Msg("already exists, skipping clone")
		return dest, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", &AcquisitionError{Locator: locator, Destination: dest, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &AcquisitionError{Locator: locator, Destination: dest, Err: err}
	}

	args := []string{"clone"}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	args = append(args, strings.TrimRight(locator, "/"), dest)

	log.Info().Str("locator", locator).Str("destination", dest).Msg("cloning repository")
	if err := runGit(ctx, args...); err != nil {
		return "", &AcquisitionError{Locator: locator, Destination: dest, Err: err}
	}
	return dest, nil
}
