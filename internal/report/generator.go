package report

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/phobologic/wordstat/internal/acquire"
	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/pos"
	"github.com/phobologic/wordstat/internal/query"
	"github.com/phobologic/wordstat/internal/ranking"
	"github.com/phobologic/wordstat/internal/syntax"
)

// Source is what a Generator analyzes: either a ready sampler or a locator
// still to be acquired and parsed. Build one with FromSampler or FromLocator.
type Source struct {
	sampler *query.Sampler
	locator string
}

// FromSampler uses an already-built analysis source.
func FromSampler(s *query.Sampler) Source {
	return Source{sampler: s}
}

// FromLocator resolves a local path or remote repository URL.
func FromLocator(locator string) Source {
	return Source{locator: locator}
}

// Options configures how a locator Source is resolved.
type Options struct {
	Acquire    acquire.Options
	Syntax     syntax.Options
	Classifier pos.Classifier
	Logger     *zerolog.Logger
}

// Request selects one report.
type Request struct {
	Format  model.Format
	Query   query.Query
	TopSize int
	// Strict turns unsupported formats and sample kinds into errors.
	Strict bool
}

// Generator produces reports for one corpus. The parse cache lives as long
// as the generator, so several reports share one parse.
type Generator struct {
	sampler *query.Sampler
	cache   *syntax.Cache
	log     zerolog.Logger
}

// NewGenerator resolves src. For a locator this acquires the corpus
// (cloning if remote) but does not parse anything yet.
func NewGenerator(ctx context.Context, src Source, opts Options) (*Generator, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	if src.sampler != nil {
		return &Generator{sampler: src.sampler, log: log}, nil
	}

	if opts.Classifier == nil {
		return nil, fmt.Errorf("no part-of-speech classifier configured")
	}

	if opts.Acquire.Logger == nil {
		opts.Acquire.Logger = &log
	}
	root, err := acquire.Acquire(ctx, src.locator, opts.Acquire)
	if err != nil {
		return nil, err
	}

	if opts.Syntax.Logger == nil {
		opts.Syntax.Logger = &log
	}
	cache, err := syntax.New(root, opts.Syntax)
	if err != nil {
		return nil, err
	}

	return &Generator{
		sampler: query.NewSampler(cache, opts.Classifier, &log),
		cache:   cache,
		log:     log,
	}, nil
}

// Report computes the statistics for req without rendering them.
func (g *Generator) Report(ctx context.Context, req Request) (*model.Report, error) {
	if req.Strict && req.Query.Kind == model.SampleUnsupported {
		return nil, fmt.Errorf("unsupported sample kind")
	}
	sample, err := g.sampler.Sample(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return ranking.Summarize(sample, req.TopSize), nil
}

// Generate computes and renders one report to w.
func (g *Generator) Generate(ctx context.Context, w io.Writer, req Request) error {
	if req.Strict && req.Format == model.FormatUnsupported {
		return ErrUnsupportedFormat
	}
	r, err := g.Report(ctx, req)
	if err != nil {
		return err
	}
	if req.Format == model.FormatUnsupported {
		g.log.Warn().Msg("unsupported report format, nothing rendered")
	}
	return Render(w, req.Format, r)
}

// Failures lists files left out because they could not be parsed.
// It is empty for generators built from a sampler.
func (g *Generator) Failures() []syntax.ParseFailure {
	if g.cache == nil {
		return nil
	}
	return g.cache.Failures()
}

// Close releases parsed trees owned by the generator.
func (g *Generator) Close() {
	if g.cache != nil {
		g.cache.Close()
	}
}
