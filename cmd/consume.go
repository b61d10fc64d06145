package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/queue"
	"github.com/spf13/cobra"
)

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Log booking events from the message queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return fmt.Errorf("AMQP_URL is required")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			c := &queue.Consumer{
				URL:     cfg.AMQPURL,
				Queue:   cfg.BookingQueue,
				Handler: queue.LogHandler(log.New(os.Stdout, "", 0)),
			}
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
