package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/dolist/internal/infrastructure/keygen"
)

func newAPIKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apikey",
		Short: "Generate an API key for the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keygen.Generate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API key:  %s\n", key.String())
			fmt.Fprintf(out, "Hash:     %s\n\n", key.Hash())
			fmt.Fprintln(out, "Store the key now, it is not shown again. Start the server with:")
			fmt.Fprintf(out, "  DOLIST_API_KEY_HASH=%s\n", key.Hash())
			return nil
		},
	}
}
