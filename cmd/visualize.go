package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/datasys-cli/internal/clean"
	"github.com/KaramelBytes/datasys-cli/internal/visual"
	"github.com/spf13/cobra"
)

var (
	visLoad    loadFlags
	visClean   bool
	visOutDir  string
	visBackend string
	visKinds   []string
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize <file>",
	Short: "Render scatter and regression plots for every numeric column pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := visLoad.load(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if visClean {
			out, rep, err := clean.Clean(t, clean.DefaultOptions())
			if err != nil {
				return fmt.Errorf("clean %s: %w", args[0], err)
			}
			fmt.Fprint(w, rep.String())
			t = out
		}

		c := effectiveConfig()
		backend := c.PlotBackend
		if visBackend != "" {
			backend = visBackend
		}
		r, err := visual.NewRenderer(backend, c.PlotWidth, c.PlotHeight)
		if err != nil {
			return err
		}

		var sets []visual.Set
		for _, k := range visKinds {
			switch visual.FigureKind(k) {
			case visual.Scatter:
				sets = append(sets, visual.RenderScatter(t, r))
			case visual.Regression:
				sets = append(sets, visual.RenderRegression(t, r))
			default:
				return fmt.Errorf("unsupported --kind: %s (use scatter|regression)", k)
			}
		}

		total := 0
		for _, set := range sets {
			if set.Warning != "" {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", set.Warning)
				continue
			}
			for _, e := range set.Errors {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", e)
			}
			paths, err := visual.WriteSet(visOutDir, set)
			if err != nil {
				return err
			}
			total += len(paths)
			logger.Debug("figures written", "kind", string(set.Kind), "count", len(paths), "dir", visOutDir)
		}
		fmt.Fprintf(w, "✓ Wrote %d figures to %s\n", total, visOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(visualizeCmd)
	visLoad.register(visualizeCmd)
	visualizeCmd.Flags().BoolVar(&visClean, "clean", false, "clean the table before plotting")
	visualizeCmd.Flags().StringVar(&visOutDir, "out-dir", "plots", "directory for PNG figures")
	visualizeCmd.Flags().StringVar(&visBackend, "backend", "", "plot backend: gonum|gochart (overrides config)")
	visualizeCmd.Flags().StringSliceVar(&visKinds, "kind", []string{"scatter", "regression"}, "figure kinds to render")
}
