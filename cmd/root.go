package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tablebook",
		Short: "Restaurant table reservations: booking form web UI, backend API and tooling",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newAvailabilityCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newBookingsCmd())
	root.AddCommand(newConsumeCmd())

	return root
}

func Execute() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
