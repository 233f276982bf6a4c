// Package report renders word statistics and drives the
// acquire → parse → sample → rank → render pipeline.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/toon"
)

// ErrUnsupportedFormat is returned by strict requests for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Render writes r to w in format f. Unsupported formats write nothing and
// return nil.
func Render(w io.Writer, f model.Format, r *model.Report) error {
	r = normalized(r)
	switch f {
	case model.FormatConsole:
		return renderConsole(w, r)
	case model.FormatJSON:
		return renderJSON(w, r)
	case model.FormatCSV:
		return renderCSV(w, r)
	case model.FormatTOON:
		_, err := fmt.Fprintln(w, toon.Encode(r))
		return err
	case model.FormatYAML:
		return renderYAML(w, r)
	case model.FormatTable:
		return renderTable(w, r)
	default:
		return nil
	}
}

func normalized(r *model.Report) *model.Report {
	if r == nil {
		r = &model.Report{}
	}
	if r.Statistics == nil {
		cp := *r
		cp.Statistics = model.FrequencyTable{}
		r = &cp
	}
	return r
}

func renderConsole(w io.Writer, r *model.Report) error {
	if _, err := fmt.Fprintf(w, "total %d words, %d unique\n", r.Summary.Total, r.Summary.Unique); err != nil {
		return err
	}
	for _, wc := range r.Statistics {
		if _, err := fmt.Fprintf(w, "%s %d\n", wc.Word, wc.Count); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, r *model.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func renderCSV(w io.Writer, r *model.Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	for _, wc := range r.Statistics {
		if err := cw.Write([]string{wc.Word, strconv.Itoa(wc.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderYAML(w io.Writer, r *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}

func renderTable(w io.Writer, r *model.Report) error {
	re := lipgloss.NewRenderer(w)
	baseStyle := re.NewStyle().Padding(0, 1)
	headerStyle := baseStyle.Bold(true)

	rows := make([][]string, 0, len(r.Statistics))
	for _, wc := range r.Statistics {
		rows = append(rows, []string{wc.Word, strconv.Itoa(wc.Count)})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WORD", "COUNT").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return baseStyle
		})

	_, err := fmt.Fprintf(w, "total %d words, %d unique\n%s\n", r.Summary.Total, r.Summary.Unique, tbl)
	return err
}

// Decode parses a JSON report produced by Render.
func Decode(data []byte) (*model.Report, error) {
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding json report: %w", err)
	}
	return &r, nil
}
