package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSendCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <eventType> <data>",
		Short: "Submit a single event immediately",
		Example: `  # Report the current guild count
  analyticord send guildCount 152`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			res, err := client.Send(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted %s: %s\n", args[0], res.ID)
			_, err = fmt.Fprintf(out, "Verify at %s\n", res.VerifyURL(client.BaseURL()))
			return err
		},
	}
}
