// wordstat reports the most frequent words used in function and variable
// names across a source tree.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/wordstat/internal/acquire"
	"github.com/phobologic/wordstat/internal/config"
	"github.com/phobologic/wordstat/internal/lang"
	"github.com/phobologic/wordstat/internal/logging"
	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/pos"
	"github.com/phobologic/wordstat/internal/report"
	"github.com/phobologic/wordstat/internal/syntax"
)

var version = "dev"

const defaultTopSize = 10

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

type rootFlags struct {
	configPath    string
	respectIgnore bool
	noIgnore      bool
	strict        bool
	showVersion   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var rf rootFlags

	cmd := &cobra.Command{
		Use:   "wordstat [flags] <path-or-url>",
		Short: "Count the words used in function and variable names",
		Long: `wordstat parses every source file under a directory (or a freshly cloned
repository) and reports the most frequent names, or the most frequent verbs
or nouns inside them.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rf.showVersion {
				_, _ = fmt.Fprintf(stdout, "wordstat %s\n", version)
				return nil
			}
			if len(args) == 0 {
				return errors.New("missing path or repository URL")
			}
			return runReport(cmd, args[0], rf, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringP("type", "t", "func", "what to sample: func or name")
	f.StringP("word", "w", "", "part of speech to count inside names: verb or noun")
	f.BoolP("locals", "l", false, "with --type name, count only local assignment targets")
	f.StringP("format", "f", "console", "output format: "+strings.Join(model.FormatNames(), ", "))
	f.StringP("output", "o", "", "write the report to this file instead of stdout")
	f.StringP("size", "s", strconv.Itoa(defaultTopSize), "number of entries in the report")
	f.String("lang", lang.Default, "source language: "+strings.Join(lang.Names(), ", "))
	f.StringSlice("ext", nil, "file extensions to analyze (default: the language's own)")
	f.StringSlice("exclude", nil, "glob patterns of paths to skip")
	f.BoolVar(&rf.respectIgnore, "respect-ignore", false, "skip gitignored files and vendor/hidden directories")
	f.BoolVar(&rf.noIgnore, "no-ignore", false, "analyze every file, even when the config enables ignore rules")
	f.Int("workers", 0, "parallel parsers (0: one per CPU)")
	f.Int64("max-file-size", 0, "skip files larger than this many bytes (0: no limit)")
	f.String("clone-dir", "", "directory to clone remote repositories into")
	f.Int("depth", 0, "shallow clone depth (0: full history)")
	f.String("lexicon", "", "TOML lexicon file for the part-of-speech classifier")
	f.Bool("stem", false, "look up word stems missing from the lexicon")
	f.BoolVar(&rf.strict, "strict", false, "reject unknown types, parts of speech, formats and sizes")

	pf := cmd.PersistentFlags()
	pf.StringVar(&rf.configPath, "config", "", "config file (default: .wordstat.yaml)")
	pf.Bool("debug", false, "debug logging")
	pf.BoolP("verbose", "v", false, "informational logging")
	pf.BoolP("quiet", "q", false, "no logging")
	f.BoolVarP(&rf.showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr), newSchemaCmd(stdout))
	return cmd
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"type":          "report.type",
	"word":          "report.word",
	"locals":        "report.locals",
	"format":        "report.format",
	"output":        "report.output",
	"size":          "report.top_size",
	"lang":          "analysis.language",
	"ext":           "analysis.extensions",
	"exclude":       "analysis.exclude",
	"workers":       "analysis.workers",
	"max-file-size": "analysis.max_file_size",
	"clone-dir":     "acquire.dir",
	"depth":         "acquire.depth",
	"lexicon":       "classifier.lexicon",
	"stem":          "classifier.stem_fallback",
	"debug":         "app.debug",
	"verbose":       "app.verbose",
	"quiet":         "app.quiet",
}

func loadConfig(cmd *cobra.Command, rf rootFlags) (*config.Config, *viper.Viper, error) {
	v := config.New()
	var bindErr error
	cmd.Flags().VisitAll(func(fl *pflag.Flag) {
		if key, ok := flagKeys[fl.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, fl)
		}
	})
	if bindErr != nil {
		return nil, nil, bindErr
	}
	switch {
	case rf.noIgnore:
		v.Set("analysis.respect_gitignore", false)
		v.Set("analysis.skip_dirs", false)
	case rf.respectIgnore:
		v.Set("analysis.respect_gitignore", true)
		v.Set("analysis.skip_dirs", true)
	}
	cfg, err := config.Load(v, rf.configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func runReport(cmd *cobra.Command, locator string, rf rootFlags, stdout, stderr io.Writer) error {
	cfg, v, err := loadConfig(cmd, rf)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("loaded config")
	}

	req, err := buildRequest(cfg.Report, rf.strict, log)
	if err != nil {
		return err
	}

	classifier, err := pos.Bootstrap(pos.Options{
		LexiconPath:  cfg.Classifier.Lexicon,
		StemFallback: cfg.Classifier.StemFallback,
		CacheSize:    cfg.Classifier.CacheSize,
	})
	if err != nil {
		return fmt.Errorf("loading classifier: %w", err)
	}

	ctx := cmd.Context()
	gen, err := report.NewGenerator(ctx, report.FromLocator(locator), report.Options{
		Acquire: acquire.Options{
			Dir:   cfg.Acquire.Dir,
			Depth: cfg.Acquire.Depth,
		},
		Syntax: syntax.Options{
			Language:         cfg.Analysis.Language,
			Extensions:       normalizeExtensions(cfg.Analysis.Extensions),
			Exclude:          cfg.Analysis.Exclude,
			RespectGitignore: cfg.Analysis.RespectGitignore,
			SkipDirs:         cfg.Analysis.SkipDirs,
			Workers:          cfg.Analysis.Workers,
			MaxFileSize:      cfg.Analysis.MaxFileSize,
		},
		Classifier: classifier,
		Logger:     &log,
	})
	if err != nil {
		return err
	}
	defer gen.Close()

	// a failed run must not leave a partial report behind
	var buf bytes.Buffer
	if err := gen.Generate(ctx, &buf, req); err != nil {
		return err
	}
	if err := writeOutput(cfg.Report.Output, stdout, buf.Bytes()); err != nil {
		return err
	}
	if n := len(gen.Failures()); n > 0 {
		log.Info().Int("files", n).Msg("some files could not be parsed and were skipped")
	}
	return nil
}

// buildRequest turns report settings into a request. Unrecognized values
// fall back to the defaults with a warning, or fail in strict mode.
func buildRequest(rc config.ReportConfig, strict bool, log zerolog.Logger) (report.Request, error) {
	req := report.Request{Strict: strict}

	req.Query.Kind = model.ParseSampleKind(rc.Type)
	if req.Query.Kind == model.SampleUnsupported {
		if strict {
			return req, fmt.Errorf("unknown type %q", rc.Type)
		}
		log.Warn().Str("type", rc.Type).Msg("unknown type, using func")
		req.Query.Kind = model.SampleFunc
	}

	if rc.Word != "" {
		// the command line takes tag names exactly as printed
		req.Query.Tag = pos.ParseTag(rc.Word)
		if req.Query.Tag.String() != rc.Word {
			req.Query.Tag = pos.None
			if strict {
				return req, fmt.Errorf("unknown part of speech %q", rc.Word)
			}
			log.Warn().Str("word", rc.Word).Msg("unknown part of speech, counting whole names")
		}
	}

	req.Query.LocalsOnly = rc.Locals && req.Query.Kind == model.SampleName

	req.Format = model.ParseFormat(rc.Format)
	if req.Format == model.FormatUnsupported && !strict {
		log.Warn().Str("format", rc.Format).Msg("unknown format, using console")
		req.Format = model.FormatConsole
	}

	size, err := strconv.Atoi(strings.TrimSpace(rc.TopSize))
	if err != nil {
		if strict {
			return req, fmt.Errorf("invalid size %q", rc.TopSize)
		}
		log.Info().Str("size", rc.TopSize).Msgf("invalid size, using %d", defaultTopSize)
		size = defaultTopSize
	}
	req.TopSize = size
	return req, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	var out []string
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
