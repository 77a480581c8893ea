package cmd

import (
	"fmt"

	"github.com/KaramelBytes/datasys-cli/internal/clean"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/KaramelBytes/datasys-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clnLoad       loadFlags
	clnOutputPath string
	clnReportPath string
	clnPreview    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Impute missing values, drop sparse columns and remove IQR outliers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := clnLoad.load(args[0])
		if err != nil {
			return err
		}
		out, rep, err := clean.Clean(t, clean.DefaultOptions())
		if err != nil {
			return fmt.Errorf("clean %s: %w", args[0], err)
		}
		logger.Info("dataset cleaned", "file", args[0], "rows_in", t.Rows(), "rows_out", out.Rows(),
			"columns_in", len(t.Cols), "columns_out", len(out.Cols))

		w := cmd.OutOrStdout()
		if clnOutputPath == "-" {
			w = cmd.ErrOrStderr()
		}
		fmt.Fprintln(w, "Cleaning Report")
		if len(rep) == 0 {
			fmt.Fprintln(w, "• No changes")
		} else {
			fmt.Fprint(w, rep.String())
		}
		if clnReportPath != "" {
			if err := utils.SafeWriteFile(clnReportPath, []byte(rep.String())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if clnPreview {
			fmt.Fprintln(w)
			fmt.Fprintln(w, table.MarkdownHead(out, effectiveConfig().PreviewRows))
		}

		data, err := out.CSVBytes()
		if err != nil {
			return err
		}
		if clnOutputPath == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.SafeWriteFile(clnOutputPath, data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(w, "✓ Wrote %d rows × %d columns to %s\n", out.Rows(), len(out.Cols), clnOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	clnLoad.register(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnOutputPath, "output", "o", table.ExportFileName, "path for the cleaned CSV ('-' for stdout)")
	cleanCmd.Flags().StringVar(&clnReportPath, "report", "", "optional path to write the cleaning report")
	cleanCmd.Flags().BoolVar(&clnPreview, "preview", false, "print the first rows of the cleaned table")
}
