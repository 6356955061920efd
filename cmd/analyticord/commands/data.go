package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newDataCommand(opts *rootOptions) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:     "data",
		Short:   "Retrieve submitted data (requires a user token)",
		Example: `  analyticord data --param eventType=messages --param botID=1234`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseParams(params)
			if err != nil {
				return err
			}
			client, err := opts.newClient()
			if err != nil {
				return err
			}
			records, err := client.GetData(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as key=value (repeatable)")

	return cmd
}

func parseParams(raw []string) (url.Values, error) {
	q := url.Values{}
	for _, p := range raw {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q: want key=value", p)
		}
		q.Add(k, v)
	}
	return q, nil
}
