package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/wordstat/internal/config"
)

const (
	sentinelStart = "# wordstat:start"
	sentinelEnd   = "# wordstat:end"
)

type initFlags struct {
	force     bool
	dryRun    bool
	gitignore bool
}

// newInitCmd implements `wordstat init`, which writes a commented default
// config file into a project directory.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags initFlags
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default .wordstat.yaml",
		Long: `Write a commented default .wordstat.yaml into dir (default: the current
directory). An existing file is left alone unless --force is given.

With --gitignore, a wordstat block listing the log directory is added to (or
updated in) dir/.gitignore without touching the rest of the file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, flags, stdout, stderr)
		},
	}
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print what would be written without modifying anything")
	cmd.Flags().BoolVar(&flags.gitignore, "gitignore", false, "also keep .wordstat/ out of git")
	return cmd
}

func runInit(dir string, flags initFlags, stdout, stderr io.Writer) error {
	path := filepath.Join(dir, config.FileName+".yaml")
	template := config.Template()

	if flags.dryRun {
		_, _ = fmt.Fprint(stdout, template)
		if flags.gitignore {
			existing, _ := os.ReadFile(filepath.Join(dir, ".gitignore"))
			_, _ = fmt.Fprintf(stdout, "\n--- .gitignore\n%s", applySection(string(existing), gitignoreSection()))
		}
		return nil
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(stderr, "wrote %s\n", path)

	if flags.gitignore {
		ignorePath := filepath.Join(dir, ".gitignore")
		existing, _ := os.ReadFile(ignorePath)
		updated := applySection(string(existing), gitignoreSection())
		if err := os.WriteFile(ignorePath, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", ignorePath, err)
		}
		_, _ = fmt.Fprintf(stderr, "updated %s\n", ignorePath)
	}
	return nil
}

// gitignoreSection returns the sentinel-wrapped ignore block.
func gitignoreSection() string {
	return sentinelStart + "\n.wordstat/\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) == 0 {
		return section + "\n"
	}
	return content + "\n" + section + "\n"
}
