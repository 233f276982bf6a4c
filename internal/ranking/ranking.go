// Package ranking reduces word samples to frequency tables.
package ranking

import (
	"sort"

	"github.com/phobologic/wordstat/internal/model"
)

// Tally counts words, keeping entries in first-encountered order.
func Tally(words []string) model.FrequencyTable {
	index := make(map[string]int)
	table := make(model.FrequencyTable, 0)
	for _, w := range words {
		if i, ok := index[w]; ok {
			table[i].Count++
			continue
		}
		index[w] = len(table)
		table = append(table, model.WordCount{Word: w, Count: 1})
	}
	return table
}

// Rank sorts a tally by count descending. Equal counts keep their tally
// order, so the result is deterministic for a given input order.
func Rank(table model.FrequencyTable) model.FrequencyTable {
	ranked := make(model.FrequencyTable, len(table))
	copy(ranked, table)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Top returns at most n of the most common words. n <= 0 yields an empty table.
func Top(words []string, n int) model.FrequencyTable {
	return truncate(Rank(Tally(words)), n)
}

// Summarize builds a report: totals over the whole sample, statistics
// limited to the n most common words.
func Summarize(words []string, n int) *model.Report {
	tally := Tally(words)
	return &model.Report{
		Summary: model.Summary{
			Total:  len(words),
			Unique: len(tally),
		},
		Statistics: truncate(Rank(tally), n),
	}
}

func truncate(table model.FrequencyTable, n int) model.FrequencyTable {
	if n <= 0 {
		return model.FrequencyTable{}
	}
	if n >= len(table) {
		return table
	}
	return table[:n]
}
