package table

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is a markdown-friendly description of a loaded table.
type Summary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Samples [][]string
	Header  []string
}

// ColumnSummary captures the inferred kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Describe summarizes every column and keeps the first sampleRows rows.
func Describe(t *Table, sampleRows int) *Summary {
	if sampleRows <= 0 {
		sampleRows = 5
	}
	s := &Summary{Name: t.Name, Rows: t.Rows(), Header: t.Names()}
	head := t.Head(sampleRows)
	for i := 0; i < head.Rows(); i++ {
		s.Samples = append(s.Samples, head.Record(i))
	}
	for _, c := range t.Cols {
		cs := ColumnSummary{Name: c.Name, Kind: c.Kind, Missing: c.NullCount()}
		cs.NonNull = c.Len() - cs.Missing
		switch c.Kind {
		case Numeric:
			vals := c.Present()
			if len(vals) > 0 {
				cs.Min = floats.Min(vals)
				cs.Max = floats.Max(vals)
				cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
				if len(vals) < 2 {
					cs.Std = 0
				}
			}
		case Categorical:
			counts := map[string]int{}
			for i, v := range c.Strs {
				if !c.Null[i] {
					counts[v]++
				}
			}
			tops := make([]CategoryCount, 0, len(counts))
			for k, v := range counts {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(i, j int) bool {
				if tops[i].Count == tops[j].Count {
					return tops[i].Value < tops[j].Value
				}
				return tops[i].Count > tops[j].Count
			})
			if len(tops) > 8 {
				tops = tops[:8]
			}
			cs.TopValues = tops
			cs.Unique = len(counts)
		}
		s.Cols = append(s.Cols, cs)
	}
	return s
}

// Markdown renders the summary for terminal output.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(s.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case Numeric:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
		case Categorical:
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(s.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString(MarkdownRows(s.Header, s.Samples))
	}
	return b.String()
}

// MarkdownHead renders the first n rows of t as a markdown table.
func MarkdownHead(t *Table, n int) string {
	head := t.Head(n)
	rows := make([][]string, head.Rows())
	for i := range rows {
		rows[i] = head.Record(i)
	}
	return MarkdownRows(t.Names(), rows)
}

// MarkdownRows renders a header and rows as a markdown table.
func MarkdownRows(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(h))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if r := []rune(val); len(r) > 80 {
				val = string(r[:77]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// MissingRatio returns the fraction of null cells in c, or 0 for an empty column.
func MissingRatio(c *Column) float64 {
	if c.Len() == 0 {
		return 0
	}
	return float64(c.NullCount()) / float64(c.Len())
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
