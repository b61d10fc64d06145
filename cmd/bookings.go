package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/tablebook/internal/backend/postgres"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newBookingsCmd() *cobra.Command {
	var (
		date  string
		limit int
		id    string
	)
	c := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings stored by the postgres backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()
			d, err := openDB(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer d.Close()
			repo := postgres.New(d)

			if id != "" {
				bid, err := uuid.Parse(id)
				if err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
				sb, err := repo.Get(ctx, bid)
				if db.IsNotFound(err) {
					return fmt.Errorf("booking %s not found", bid)
				}
				if err != nil {
					return err
				}
				printStored(sb)
				return nil
			}

			bs, err := repo.List(ctx, date, limit)
			if err != nil {
				return err
			}
			for _, sb := range bs {
				printStored(sb)
			}
			return nil
		},
	}
	c.Flags().StringVar(&date, "date", "", "only bookings for this date (YYYY-MM-DD)")
	c.Flags().IntVar(&limit, "limit", 100, "maximum rows")
	c.Flags().StringVar(&id, "id", "", "show a single booking")
	return c
}

func printStored(sb postgres.StoredBooking) {
	r := sb.Record
	fmt.Fprintf(os.Stdout, "id=%s name=%q date=%s time=%s guests=%d occasion=%s created=%s\n",
		sb.ID, r.Name, r.Date, r.Time, r.Guests, r.Occasion, sb.CreatedAt.Format(time.RFC3339))
}
