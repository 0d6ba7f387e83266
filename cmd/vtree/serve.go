package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/stream"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		dir   string
		title string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream the todo demo over websockets",
		Long: `Serve the todo demo: every websocket client on /ws gets its own app
whose patches are streamed as binary frames. Prometheus metrics are served
on /metrics unless metrics.enabled is false in vtree.yaml.

Examples:
  vtree serve
  vtree serve --addr=127.0.0.1:9000
  vtree serve --config ./deploy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, _ := cfg.SlogLevel()
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := stream.NewServer(stream.TodoDemo(title),
				stream.WithConfig(cfg),
				stream.WithLogger(logger),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "vtree %s serving on %s\n", version, cfg.Server.Addr)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from vtree.yaml)")
	cmd.Flags().StringVarP(&dir, "config", "c", "", "Directory holding vtree.yaml (default: nearest parent of the working directory)")
	cmd.Flags().StringVar(&title, "title", "Todos", "Heading of the demo")

	return cmd
}

// loadConfig reads vtree.yaml from dir, or from the closest directory above
// the working directory when dir is empty. A missing file yields defaults.
func loadConfig(dir string) (*config.Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if dir, err = config.FindProjectRoot(wd); err != nil {
			return nil, err
		}
	}
	return config.LoadOptional(dir)
}
