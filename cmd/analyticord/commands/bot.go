package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 4

func newBotCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Look up bots (requires a user token)",
	}
	cmd.AddCommand(newBotInfoCommand(opts))
	cmd.AddCommand(newBotListCommand(opts))
	return cmd
}

func newBotInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>...",
		Short: "Print information about one or more bots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}

			bots := make([]any, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentLookups)
			for i, id := range args {
				i, id := i, id
				g.Go(func() error {
					bot, err := client.BotInfo(ctx, id)
					if err != nil {
						return err
					}
					bots[i] = botJSON(bot)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bots)
		},
	}
}

func newBotListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bots owned by the user token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			list, err := client.BotList(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]any, 0, len(list))
			for i := range list {
				out = append(out, botJSON(&list[i]))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
