package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/spf13/cobra"
)

var (
	descLoad       loadFlags
	descOutputPath string
	descSampleRows int
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print the schema, missing ratios and a preview of a CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := descLoad.load(args[0])
		if err != nil {
			return err
		}
		rows := descSampleRows
		if !cmd.Flags().Changed("sample-rows") {
			rows = effectiveConfig().PreviewRows
		}
		md := table.Describe(t, rows).Markdown()
		if descOutputPath != "" {
			if err := os.WriteFile(descOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descLoad.register(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of preview rows (defaults to preview_rows from config)")
}
