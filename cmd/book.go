package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/form"
	"github.com/example/tablebook/internal/store"
	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	var (
		v      form.Values
		guests int
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Submit a reservation through the booking form rules (non-UI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if !booking.IsGuestOption(guests) {
				return fmt.Errorf("invalid --guests %d (want one of %v)", guests, booking.GuestOptions)
			}
			if !booking.Occasion(v.Occasion).Known() {
				return fmt.Errorf("invalid --occasion %q", v.Occasion)
			}
			if v.Time != "" && !booking.IsSlot(v.Time) {
				return fmt.Errorf("invalid --time %q (want one of %v)", v.Time, booking.SlotUniverse)
			}
			v.Guests = strconv.Itoa(guests)

			ctx := context.Background()
			b, closeBackend, err := openBackend(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer closeBackend()

			st, err := store.Open(ctx, b, booking.Today(time.Now(), cfg.Location))
			if err != nil {
				return err
			}
			f := form.New(st, cfg.Location, v)
			if err := f.ApplyFieldEdit(ctx, form.FieldDate, v.Date); err != nil {
				return err
			}

			res, err := f.Submit(ctx)
			if err != nil {
				return err
			}
			switch res.State {
			case form.Succeeded:
				fmt.Fprintf(os.Stdout, "booked %s\n", res.Record)
				return nil
			case form.Failed:
				return fmt.Errorf("%s", res.Notice)
			}
			fields := make([]string, 0, len(res.Errors))
			for field := range res.Errors {
				fields = append(fields, string(field))
			}
			sort.Strings(fields)
			for _, field := range fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, res.Errors[form.Field(field)])
			}
			return fmt.Errorf("reservation not submitted: %d invalid field(s)", len(fields))
		},
	}

	c.Flags().StringVar(&v.Name, "name", "", "guest name")
	c.Flags().StringVar(&v.Email, "email", "", "guest email")
	c.Flags().StringVar(&v.Phone, "phone", "", "guest phone (10 digits, any formatting)")
	c.Flags().StringVar(&v.Date, "date", "", "date YYYY-MM-DD")
	c.Flags().StringVar(&v.Time, "time", "", "time HH:MM")
	c.Flags().IntVar(&guests, "guests", booking.DefaultGuests, "party size")
	c.Flags().StringVar(&v.Occasion, "occasion", "", "birthday, anniversary, date, business or other")
	c.Flags().StringVar(&v.SpecialRequests, "requests", "", "special requests")
	return c
}
