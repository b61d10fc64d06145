package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/web"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the booking web UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			b, closeBackend, err := openBackend(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeBackend()

			sessions := web.NewSessionManager(cfg.CookieHashKey, cfg.CookieBlockKey, b, cfg.Location, cfg.SessionIdle)
			go func() { _ = sessions.RunSweeper(ctx, cfg.SessionIdle/4) }()

			ws := &web.Server{Sessions: sessions, Backend: b, BaseURL: cfg.BaseURL}
			log.Printf("serving %s (restaurant time zone %s)", cfg.BaseURL, cfg.Location)
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup (postgres backend)")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
