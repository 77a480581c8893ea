package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/datasys-cli/internal/config"
	"github.com/KaramelBytes/datasys-cli/internal/logging"
	"github.com/KaramelBytes/datasys-cli/internal/visual"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	envFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "datasys",
	Short: "DataSys: clean and visualize tabular CSV data",
	Long: `DataSys loads a CSV dataset, fills or drops missing values, removes IQR outliers
and renders scatter and regression plots for every pair of numeric columns,
either from the command line or through a local web UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datasys/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading DATASYS_* variables")
}

func loadConfig() {
	if err := cfgpkg.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	lc := logging.LoadConfig(cfg.LogLevel, cfg.LogFormat)
	if debug {
		lc.Level = slog.LevelDebug
	}
	logger = logging.Setup(lc)
	logger.Debug("config loaded", "file", cfgFile, "plot_backend", cfg.PlotBackend)
}

// effectiveConfig returns the loaded config, or defaults when loading failed.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		ListenAddr:  "127.0.0.1:8501",
		PreviewRows: 5,
		PlotBackend: visual.BackendGonum,
		PlotWidth:   480,
		PlotHeight:  360,
		MaxUploadMB: 50,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func newRenderer() (visual.Renderer, error) {
	c := effectiveConfig()
	return visual.NewRenderer(c.PlotBackend, c.PlotWidth, c.PlotHeight)
}
