package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/domain/booking"
	"github.com/spf13/cobra"
)

func newAvailabilityCmd() *cobra.Command {
	var date string
	c := &cobra.Command{
		Use:   "availability",
		Short: "Print the times offered on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			d := booking.Today(time.Now(), cfg.Location)
			if date != "" {
				if d, err = booking.ParseDate(date, cfg.Location); err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD)")
				}
			}

			ctx := context.Background()
			b, closeBackend, err := openBackend(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer closeBackend()

			times, err := b.ResolveAvailability(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "date=%s weekday=%s times=%s\n", d.Format(booking.DateLayout), d.Weekday(), strings.Join(times, ","))
			return nil
		},
	}
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	return c
}
