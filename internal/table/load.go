package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrEmptyInput means the input had no header row or no columns.
	ErrEmptyInput = errors.New("no header row")
	// ErrRaggedRow means a data row had more fields than the header.
	ErrRaggedRow = errors.New("row has more fields than header")
)

// LoadOptions controls CSV parsing.
type LoadOptions struct {
	// Delimiter for CSV. If 0, uses ','.
	Delimiter rune
	// DecimalSeparator for numeric cells. If 0, uses '.'.
	DecimalSeparator rune
}

// DefaultLoadOptions returns plain comma-separated, dot-decimal parsing.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Delimiter: ',', DecimalSeparator: '.'}
}

// naTokens are cell values read as missing.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#NA": {}, "#N/A N/A": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

// IsNA reports whether a raw cell value denotes a missing value.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// LoadCSV opens and parses a CSV file.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV parses CSV data with a header row and infers a kind per column.
// A column is numeric when every non-null cell parses as a number.
func ReadCSV(src io.Reader, name string, opt LoadOptions) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	// A UTF-8 BOM is common in spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	ncol := len(header)
	if ncol == 0 || (ncol == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, ErrEmptyInput
	}

	raw := make([][]string, ncol)
	null := make([][]bool, ncol)
	rows := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		rows++
		if len(rec) > ncol {
			return nil, fmt.Errorf("read row %d: %w (%d > %d)", rows, ErrRaggedRow, len(rec), ncol)
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[j] = append(raw[j], v)
			null[j] = append(null[j], IsNA(v))
		}
	}

	names := uniqueNames(header)
	cols := make([]*Column, ncol)
	for j := range header {
		cols[j] = inferColumn(names[j], raw[j], null[j], rows, opt.DecimalSeparator)
	}
	return New(name, cols...)
}

func inferColumn(name string, raw []string, null []bool, rows int, dec rune) *Column {
	if null == nil {
		null = make([]bool, rows)
		raw = make([]string, rows)
	}
	nums := make([]float64, rows)
	numeric := true
	for i, v := range raw {
		if null[i] {
			continue
		}
		x, ok := parseNumeric(v, dec)
		if !ok {
			numeric = false
			break
		}
		nums[i] = x
	}
	if numeric {
		return &Column{Name: name, Kind: Numeric, Nums: nums, Null: null}
	}
	strs := make([]string, rows)
	for i, v := range raw {
		if !null[i] {
			strs[i] = v
		}
	}
	return &Column{Name: name, Kind: Categorical, Strs: strs, Null: null}
}

// uniqueNames de-duplicates repeated or blank header names as name.1, name.2, ...
// A suffix is bumped past any name already taken, so "x,x.1,x" yields x, x.1, x.2.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for j, h := range header {
		base := strings.TrimSpace(h)
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", j)
		}
		name := base
		if used[name] {
			n := next[base]
			if n == 0 {
				n = 1
			}
			for used[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}
		used[name] = true
		names[j] = name
	}
	return names
}

func parseNumeric(s string, dec rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if dec != 0 && dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	// ParseFloat also accepts hex floats and underscores; neither is a CSV number.
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "0x") || strings.Contains(raw, "_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
