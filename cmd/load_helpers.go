package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/spf13/cobra"
)

// loadFlags are the CSV dialect flags shared by describe, clean and visualize.
type loadFlags struct {
	delimiter string
	decimal   string
}

func (l *loadFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(&l.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
}

func (l *loadFlags) options() (table.LoadOptions, error) {
	opt := table.DefaultLoadOptions()
	switch l.delimiter {
	case "", ",":
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(l.decimal)) {
	case "", ".", "dot":
	case ",", "comma":
		opt.DecimalSeparator = ','
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", l.decimal)
	}
	if opt.Delimiter == opt.DecimalSeparator {
		return opt, fmt.Errorf("--delimiter and --decimal cannot both be %q", string(opt.Delimiter))
	}
	return opt, nil
}

func (l *loadFlags) load(path string) (*table.Table, error) {
	opt, err := l.options()
	if err != nil {
		return nil, err
	}
	t, err := table.LoadCSV(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("dataset loaded", "file", path, "rows", t.Rows(), "columns", len(t.Cols))
	return t, nil
}
