package commands

import (
	"bufio"
	"context"
	"time"

	analyticord "github.com/nitros12/analyticord-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	var (
		event        string
		drainTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Count stdin lines as events and report them periodically",
		Long: `Run starts a client, counts one event per line read from stdin and lets
the client flush the counts on its schedule. On end of input or an
interrupt the client is stopped and the remaining counts are submitted.`,
		Example: `  # Count every line of a bot's message log as a message
  tail -f messages.log | analyticord run

  # Count a custom event
  analyticord run --event commandUsed < commands.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(analyticord.WithEvents(event))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := client.Start(ctx); err != nil {
				return err
			}

			lines := make(chan struct{})
			scanErr := make(chan error, 1)
			// On cancel the reader may stay blocked in Scan until the next
			// line or EOF. The command returns without waiting for it, and
			// the process exit ends it.
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					select {
					case lines <- struct{}{}:
					case <-ctx.Done():
						return
					}
				}
				scanErr <- sc.Err()
			}()

			var seen int64
		loop:
			for {
				select {
				case _, ok := <-lines:
					if !ok {
						break loop
					}
					if err := client.Increment(event); err != nil {
						return err
					}
					seen++
				case <-ctx.Done():
					break loop
				}
			}

			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
			defer cancel()
			if err := client.Stop(stopCtx); err != nil {
				log.Warn().Err(err).Msg("Final flush did not complete")
			}
			log.Info().Str("event", event).Int64("lines", seen).Msg("Run finished")

			select {
			case err := <-scanErr:
				return err
			default:
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&event, "event", "e", analyticord.EventMessages, "event type counted for each line")
	cmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 10*time.Second, "how long the final flush may take")

	return cmd
}
