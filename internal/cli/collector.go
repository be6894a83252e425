package cli

import (
	"fmt"
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/trackkit/internal/collectortest"
	"github.com/dmitrymomot/trackkit/pkg/httpserver"
	"github.com/dmitrymomot/trackkit/pkg/logger"
)

// CollectorOptions holds flags for the collector command.
type CollectorOptions struct {
	*RootOptions
	Addr            string
	ClientID        string
	Signature       string
	UUID            string
	HeartbeatStatus int
	EventStatus     int
}

type listening struct {
	URL string `json:"url"`
}

func (l listening) WriteText(w io.Writer) {
	_, _ = fmt.Fprintf(w, "collector listening, use --host %s\n", l.URL)
}

// NewCollectorCommand creates the collector command.
func NewCollectorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CollectorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "collector",
		Short: "Run a local collector that logs what the SDK sends",
		Long: `Run a local stand-in for the collector.

Every heartbeat and event is logged at INFO and answered with the
configured identity and status codes, which makes it easy to see the exact
payloads an integration produces. Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCollector(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&opts.ClientID, "client-id", "local-client", "client id returned by heartbeats")
	cmd.Flags().StringVar(&opts.Signature, "signature", "local-signature", "signature returned by heartbeats")
	cmd.Flags().StringVar(&opts.UUID, "uuid", "local-uuid", "uuid returned by heartbeats")
	cmd.Flags().IntVar(&opts.HeartbeatStatus, "heartbeat-status", 200, "HTTP status of heartbeat responses")
	cmd.Flags().IntVar(&opts.EventStatus, "event-status", 200, "HTTP status of event responses")

	return cmd
}

func runCollector(opts *CollectorOptions, cmd *cobra.Command) (err error) {
	rt, err := newRuntime(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// Received requests are logged at INFO, so that is the floor here.
	log := rt.log
	if rt.settings.LogLevel < logger.LevelInfo {
		log = rt.newLogger(opts.RootOptions, cmd.ErrOrStderr(), logger.LevelInfo)
	}

	c := collectortest.New(
		collectortest.WithHeartbeatResult(collectortest.HeartbeatResult{
			ClientID:  opts.ClientID,
			Signature: opts.Signature,
			UUID:      opts.UUID,
		}),
		collectortest.WithHeartbeatStatus(opts.HeartbeatStatus),
		collectortest.WithEventStatus(opts.EventStatus),
		collectortest.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Mount("/", c.Handler())

	srv := httpserver.New(httpserver.WithAddr(opts.Addr), httpserver.WithLogger(log))
	done := make(chan error, 1)
	go func() { done <- srv.Run(cmd.Context(), r) }()

	select {
	case <-srv.Ready():
		if err := rt.out.Success(listening{URL: "http://" + srv.Addr() + collectortest.ServletPath}); err != nil {
			return err
		}
		return <-done
	case err := <-done:
		return WrapExitError(ExitCommandError, "start collector", err)
	}
}
