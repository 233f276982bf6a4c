// Package query maps (sample kind, part of speech, scope) queries onto
// word samples and ranked frequency tables.
package query

import (
	"context"
	"iter"

	"github.com/rs/zerolog"

	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/pos"
	"github.com/phobologic/wordstat/internal/ranking"
	"github.com/phobologic/wordstat/internal/words"
)

// NodeSource supplies a fresh structural walk of a corpus per call.
type NodeSource interface {
	Nodes(ctx context.Context) (iter.Seq[model.Node], error)
}

// Query describes one sample.
type Query struct {
	Kind SampleKind
	// Tag filters words by part of speech; pos.None samples whole names.
	Tag pos.Tag
	// LocalsOnly restricts name samples to assignment targets.
	LocalsOnly bool
}

// SampleKind is re-exported for callers that only import query.
type SampleKind = model.SampleKind

// Sampler answers queries against one corpus. It holds no parse state of
// its own; repeated queries share whatever the NodeSource caches.
type Sampler struct {
	nodes      NodeSource
	classifier pos.Classifier
	log        zerolog.Logger
}

// NewSampler builds a sampler. The classifier must already be initialized.
func NewSampler(nodes NodeSource, classifier pos.Classifier, log *zerolog.Logger) *Sampler {
	s := &Sampler{nodes: nodes, classifier: classifier, log: zerolog.Nop()}
	if log != nil {
		s.log = *log
	}
	return s
}

// Sample returns the word sample for q. An unsupported kind yields an empty
// sample and no error.
//
//	kind  tag    result
//	func  none   non-magic function names, whole
//	func  set    words of function names with that tag
//	name  none   non-magic identifier names (optionally local only), whole
//	name  set    words of identifier names with that tag
func (s *Sampler) Sample(ctx context.Context, q Query) ([]string, error) {
	var names iter.Seq[string]
	switch q.Kind {
	case model.SampleFunc:
		nodes, err := s.nodes.Nodes(ctx)
		if err != nil {
			return nil, err
		}
		names = words.Functions(nodes)
	case model.SampleName:
		nodes, err := s.nodes.Nodes(ctx)
		if err != nil {
			return nil, err
		}
		scope := words.AllNames
		if q.LocalsOnly {
			scope = words.LocalOnly
		}
		names = words.Names(nodes, scope)
	default:
		s.log.Warn().Stringer("kind", q.Kind).Msg("unsupported sample kind, returning empty sample")
		return []string{}, nil
	}

	if q.Tag == pos.None {
		return words.Collect(words.WithoutMagic(names)), nil
	}
	return words.FromIdentifiers(names, q.Tag, s.classifier), nil
}

// Top ranks the sample for q and keeps at most n entries.
func (s *Sampler) Top(ctx context.Context, q Query, n int) (model.FrequencyTable, error) {
	sample, err := s.Sample(ctx, q)
	if err != nil {
		return nil, err
	}
	return ranking.Top(sample, n), nil
}
