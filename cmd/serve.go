package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/KaramelBytes/datasys-cli/internal/session"
	"github.com/KaramelBytes/datasys-cli/internal/web"
	"github.com/spf13/cobra"
)

var (
	srvAddr    string
	srvPreload string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		addr := c.ListenAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		r, err := newRenderer()
		if err != nil {
			return err
		}
		sess := session.New(session.Options{
			PreviewRows: c.PreviewRows,
			Renderer:    r,
			Logger:      logger,
		})
		if srvPreload != "" {
			if err := preload(sess, srvPreload); err != nil {
				return err
			}
		}
		h := web.NewHandler(sess, c.MaxUploadMB, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ DataSys UI on http://%s (Ctrl+C to stop)\n", addr)
		return web.Serve(ctx, addr, h.Router(), logger)
	},
}

// preload uploads the CSV at path into sess under its base name.
func preload(sess *session.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if v := sess.Dispatch(session.Upload{Name: filepath.Base(path), Data: data}); v.Err != nil {
		return v.Err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (overrides listen_addr)")
	serveCmd.Flags().StringVar(&srvPreload, "file", "", "optional CSV to load at startup")
}
