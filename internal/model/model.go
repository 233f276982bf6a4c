// Package model defines core data structures for wordstat.
package model

import (
	"encoding/json"
	"fmt"
)

// NodeKind discriminates the structural nodes produced by a tree walk.
type NodeKind int

const (
	Other NodeKind = iota
	Identifier
	FunctionDefinition
)

func (k NodeKind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case FunctionDefinition:
		return "function"
	default:
		return "other"
	}
}

// Context tells whether an identifier is read or bound at its position.
type Context int

const (
	Load Context = iota
	Store
)

// Node is a read-only view of one element of a syntax tree walk.
// Name is set for Identifier and FunctionDefinition nodes only.
type Node struct {
	Kind    NodeKind
	Name    string
	Context Context
	Type    string // grammar node type, kept for debugging
	File    string
	Line    int
}

// SampleKind selects what a query samples: function names or identifiers.
type SampleKind int

const (
	SampleUnsupported SampleKind = iota
	SampleFunc
	SampleName
)

// ParseSampleKind maps "func" and "name" to their kinds. Matching is exact;
// any other value, including "FUNC", yields SampleUnsupported.
func ParseSampleKind(s string) SampleKind {
	switch s {
	case "func":
		return SampleFunc
	case "name":
		return SampleName
	default:
		return SampleUnsupported
	}
}

func (k SampleKind) String() string {
	switch k {
	case SampleFunc:
		return "func"
	case SampleName:
		return "name"
	default:
		return "unsupported"
	}
}

// Format is a report serialization format.
type Format int

const (
	FormatUnsupported Format = iota
	FormatConsole
	FormatJSON
	FormatCSV
	FormatTOON
	FormatYAML
	FormatTable
)

var formatNames = map[Format]string{
	FormatConsole: "console",
	FormatJSON:    "json",
	FormatCSV:     "csv",
	FormatTOON:    "toon",
	FormatYAML:    "yaml",
	FormatTable:   "table",
}

// ParseFormat maps an exact format name to its Format, or FormatUnsupported.
func ParseFormat(s string) Format {
	for f, name := range formatNames {
		if name == s {
			return f
		}
	}
	return FormatUnsupported
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unsupported"
}

// FormatNames lists the supported format names in declaration order.
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for f := FormatConsole; f <= FormatTable; f++ {
		names = append(names, formatNames[f])
	}
	return names
}

// WordCount is one entry of a frequency table.
// It encodes as a two-element JSON array: ["word", count].
type WordCount struct {
	Word  string `yaml:"word"`
	Count int    `yaml:"count"`
}

func (wc WordCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{wc.Word, wc.Count})
}

func (wc *WordCount) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("word count: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &wc.Word); err != nil {
		return fmt.Errorf("word count word: %w", err)
	}
	if err := json.Unmarshal(pair[1], &wc.Count); err != nil {
		return fmt.Errorf("word count count: %w", err)
	}
	return nil
}

// FrequencyTable is sorted by count descending, ties in first-encountered order.
type FrequencyTable []WordCount

// Summary holds the total and distinct word counts of a sample.
type Summary struct {
	Total  int `json:"total" yaml:"total"`
	Unique int `json:"unique" yaml:"unique"`
}

// Report is the payload every renderer consumes.
type Report struct {
	Summary    Summary        `json:"summary" yaml:"summary"`
	Statistics FrequencyTable `json:"statistics" yaml:"statistics"`
}
