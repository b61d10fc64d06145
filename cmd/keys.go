package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	var secret bool
	c := &cobra.Command{
		Use:   "keys",
		Short: "Generate COOKIE_HASH_KEY and COOKIE_BLOCK_KEY values (base64), or a COOKIE_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret {
				s := make([]byte, 32)
				if _, err := rand.Read(s); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "export COOKIE_SECRET=%s\n", base64.RawURLEncoding.EncodeToString(s))
				return nil
			}
			hash := make([]byte, 32)
			block := make([]byte, 32)
			if _, err := rand.Read(hash); err != nil {
				return err
			}
			if _, err := rand.Read(block); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "export COOKIE_HASH_KEY=%s\n", base64.StdEncoding.EncodeToString(hash))
			fmt.Fprintf(os.Stdout, "export COOKIE_BLOCK_KEY=%s\n", base64.StdEncoding.EncodeToString(block))
			return nil
		},
	}
	c.Flags().BoolVar(&secret, "secret", false, "print a single COOKIE_SECRET instead")
	return c
}
