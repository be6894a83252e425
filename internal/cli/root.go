package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile  string
	ConsumerKey string
	Host        string
	AppVersion  string
	Persistence string
	KeyPrefix   string
	Storage     string
	StoragePath string
	RedisURL    string
	LogLevel    string
	LogFile     string
	Format      string // "json" | "text"
	Timeout     time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the trackkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trackkit",
		Short: "Inspect and exercise a trackkit client identity",
		Long: `trackkit runs the tracking SDK from the command line.

Identity is persisted between runs (by default in a JSON file under the XDG
data directory), so repeated invocations behave like page loads of the same
browser. Configuration comes from TRACKKIT_* environment variables, an
optional YAML file (--config) and flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file")
	f.StringVar(&opts.ConsumerKey, "consumer-key", "", "consumer key sent with every request")
	f.StringVar(&opts.Host, "host", "", "collector URL including the servlet path")
	f.StringVar(&opts.AppVersion, "app-version", "", "application version reported in heartbeats")
	f.StringVar(&opts.Persistence, "persistence", "", "persistence mode (localStorage|cookie|none)")
	f.StringVar(&opts.KeyPrefix, "prefix", "", "persistence key prefix")
	f.StringVar(&opts.Storage, "storage", "file", "local storage backend (file|sqlite|redis|memory)")
	f.StringVar(&opts.StoragePath, "storage-path", "", "file or database path for the local storage backend")
	f.StringVar(&opts.RedisURL, "redis-url", "", "Redis URL for the redis storage backend")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level (none|critical|error|warn|info|debug|trace)")
	f.StringVar(&opts.LogFile, "log-file", "", "write logs to a rotated file instead of stderr")
	f.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	f.DurationVar(&opts.Timeout, "timeout", 0, "collector request timeout")

	cmd.AddCommand(NewHeartbeatCommand(opts))
	cmd.AddCommand(NewTrackCommand(opts))
	cmd.AddCommand(NewPageCommand(opts))
	cmd.AddCommand(NewIdentityCommand(opts))
	cmd.AddCommand(NewCollectorCommand(opts))

	return cmd
}
