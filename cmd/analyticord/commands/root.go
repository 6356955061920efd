package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	analyticord "github.com/nitros12/analyticord-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	baseURL    string
	verbose    bool
	trace      bool

	tracerProvider *sdktrace.TracerProvider
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "analyticord",
		Short: "Command line client for the Analyticord bot analytics API",
		Long: `analyticord talks to an Analyticord server on behalf of a bot.

Credentials come from the ANALYTICORD_* environment variables, an optional
dotenv file and an optional YAML config file:
  ANALYTICORD_BOT_TOKEN   bot token (login, send, run)
  ANALYTICORD_USER_TOKEN  user token (data, bot info, bot list)
  ANALYTICORD_URL         server base URL`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return opts.setupTracing(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.shutdownTracing(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load if it exists")
	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "override the server base URL")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.trace, "trace", false, "print request spans to stderr")

	rootCmd.AddCommand(newLoginCommand(opts))
	rootCmd.AddCommand(newSendCommand(opts))
	rootCmd.AddCommand(newDataCommand(opts))
	rootCmd.AddCommand(newBotCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))

	return rootCmd
}

// loadConfig merges the dotenv file, the config file, the environment and
// the --url flag, in increasing order of precedence.
func (o *rootOptions) loadConfig() (analyticord.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return analyticord.Config{}, fmt.Errorf("load env file %s: %w", o.envFile, err)
		}
	}

	cfg, err := analyticord.LoadConfig(o.configPath)
	if err != nil {
		return analyticord.Config{}, err
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	return cfg, nil
}

func (o *rootOptions) newClient(extra ...analyticord.Option) (*analyticord.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	var clientOpts []analyticord.Option
	if o.tracerProvider != nil {
		clientOpts = append(clientOpts, analyticord.WithTracerProvider(o.tracerProvider))
	}
	return analyticord.NewClientFromConfig(cfg, append(clientOpts, extra...)...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// botJSON prints the full server object rather than the decoded subset.
func botJSON(b *analyticord.Bot) any {
	if b.Fields != nil {
		return b.Fields
	}
	return b
}
