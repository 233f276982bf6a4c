// Package syntax parses a corpus once per session and replays flattened
// walks over the cached trees.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/wordstat/internal/discover"
	"github.com/phobologic/wordstat/internal/lang"
	"github.com/phobologic/wordstat/internal/model"
)

var (
	// ErrSyntax marks a file whose tree contains a syntax error.
	ErrSyntax = errors.New("syntax error")
	// ErrEncoding marks a file that is not valid UTF-8.
	ErrEncoding = errors.New("invalid UTF-8")
	// ErrTooLarge marks a file skipped for exceeding the size limit.
	ErrTooLarge = errors.New("file too large")
)

// ParseFailure records a file excluded from the tree collection.
type ParseFailure struct {
	Path string
	Err  error
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f *ParseFailure) Unwrap() error { return f.Err }

// Options configures a Cache.
type Options struct {
	// Language names a registered language; empty selects lang.Default.
	Language string
	// Extensions overrides the language's own extensions.
	Extensions       []string
	Exclude          []string
	RespectGitignore bool
	SkipDirs         bool
	// Workers bounds parallel parsing; <= 0 uses GOMAXPROCS.
	Workers int
	// MaxFileSize skips larger files; <= 0 disables the limit.
	MaxFileSize int64
	Logger      *zerolog.Logger
}

// Cache owns the parsed trees of one corpus for one analysis session.
// Trees are built on first use and never re-parsed; every Nodes call walks
// them afresh.
type Cache struct {
	root string
	opts Options
	lang *lang.Language
	log  zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	trees    []*Tree
	failures []ParseFailure
}

// New prepares a cache for the corpus under root. Nothing is read yet.
func New(root string, opts Options) (*Cache, error) {
	name := opts.Language
	if name == "" {
		name = lang.Default
	}
	l, ok := lang.Languages[name]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", name)
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	for _, ext := range opts.Extensions {
		if other := lang.ForExtension(ext); other != "" && other != l.Name {
			log.Warn().Str("ext", ext).Str("language", other).
				Msgf("extension belongs to another language, parsing as %s anyway", l.Name)
		}
	}
	return &Cache{root: root, opts: opts, lang: l, log: log}, nil
}

// Enumerate lists the corpus source files relative to the root, sorted.
func (c *Cache) Enumerate() ([]string, error) {
	exts := c.opts.Extensions
	if len(exts) == 0 {
		exts = c.lang.Extensions
	}
	entries, err := discover.Files(c.root, discover.Options{
		Extensions:       exts,
		Exclude:          c.opts.Exclude,
		RespectGitignore: c.opts.RespectGitignore,
		SkipDirs:         c.opts.SkipDirs,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}

// Parse reads and parses one file with a fresh parser. Failures come back
// as *ParseFailure.
func (c *Cache) Parse(ctx context.Context, path string) (*Tree, error) {
	return c.parse(ctx, c.lang.NewParser(), path)
}

func (c *Cache) parse(ctx context.Context, parser *sitter.Parser, path string) (*Tree, error) {
	absPath := filepath.Join(c.root, path)
	if c.opts.MaxFileSize > 0 {
		if fi, err := os.Stat(absPath); err == nil && fi.Size() > c.opts.MaxFileSize {
			return nil, &ParseFailure{Path: path, Err: ErrTooLarge}
		}
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, &ParseFailure{Path: path, Err: err}
	}
	if !utf8.Valid(source) {
		return nil, &ParseFailure{Path: path, Err: ErrEncoding}
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseFailure{Path: path, Err: err}
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, &ParseFailure{Path: path, Err: ErrSyntax}
	}
	return &Tree{Path: path, Language: c.lang, source: source, tree: tree}, nil
}

// Trees returns the parsed trees in path order, parsing the corpus on the
// first call. Files that fail to parse are left out and recorded.
func (c *Cache) Trees(ctx context.Context) ([]*Tree, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.trees, nil
	}

	paths, err := c.Enumerate()
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("files", len(paths)).Str("root", c.root).Str("language", c.lang.Name).Msg("enumerated sources")

	trees, failures, err := c.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		c.log.Warn().Str("file", f.Path).Err(f.Err).Msg("skipping file")
	}
	c.log.Debug().Int("trees", len(trees)).Int("failures", len(failures)).Msg("trees generated")

	c.trees, c.failures, c.loaded = trees, failures, true
	return c.trees, nil
}

// Nodes returns a fresh breadth-first walk over every cached tree.
func (c *Cache) Nodes(ctx context.Context) (iter.Seq[model.Node], error) {
	trees, err := c.Trees(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(model.Node) bool) {
		for _, t := range trees {
			for _, n := range t.flatten() {
				if !yield(n) {
					return
				}
			}
		}
	}, nil
}

// Failures returns the files excluded from the tree collection.
func (c *Cache) Failures() []ParseFailure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ParseFailure(nil), c.failures...)
}

// Close releases the parsed trees. The cache may be reloaded afterwards.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.trees {
		t.close()
	}
	c.trees, c.failures, c.loaded = nil, nil, false
}

func (c *Cache) parseAll(ctx context.Context, paths []string) ([]*Tree, []ParseFailure, error) {
	if len(paths) == 0 {
		return nil, nil, nil
	}

	numWorkers := c.opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	type result struct {
		tree    *Tree
		failure *ParseFailure
	}
	results := make([]result, len(paths))

	work := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)
		for i := range paths {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range numWorkers {
		g.Go(func() error {
			// Each goroutine gets its own parser
			parser := c.lang.NewParser()
			for idx := range work {
				tree, err := c.parse(gctx, parser, paths[idx])
				var pf *ParseFailure
				switch {
				case errors.As(err, &pf):
					results[idx] = result{failure: pf}
				case err != nil:
					return err
				default:
					results[idx] = result{tree: tree}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for _, r := range results {
			if r.tree != nil {
				r.tree.close()
			}
		}
		return nil, nil, err
	}

	// Collect results in path order
	var trees []*Tree
	var failures []ParseFailure
	for _, r := range results {
		switch {
		case r.tree != nil:
			trees = append(trees, r.tree)
		case r.failure != nil:
			failures = append(failures, *r.failure)
		}
	}
	return trees, failures, nil
}
