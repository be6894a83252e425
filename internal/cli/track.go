package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/trackkit"
)

// TrackOptions holds flags for the track command.
type TrackOptions struct {
	*RootOptions
	Data     []string
	DataJSON string
	Meta     []string
}

// TrackResult reports a sent event.
type TrackResult struct {
	Event    string `json:"event"`
	ClientID string `json:"client_id,omitempty"`
}

func (r TrackResult) WriteText(w io.Writer) {
	if r.ClientID == "" {
		_, _ = fmt.Fprintf(w, "sent %s (no client id)\n", r.Event)
		return
	}
	_, _ = fmt.Fprintf(w, "sent %s as %s\n", r.Event, r.ClientID)
}

// NewTrackCommand creates the track command.
func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "track <event-name>",
		Short: "Send a custom event",
		Long: `Send a custom event with the persisted identity.

Example:
  trackkit track checkout --data amount=42 --data currency=KWD --meta source=cli`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Data, "data", "d", nil, "event data field as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.DataJSON, "data-json", "", "event data as a JSON object")
	cmd.Flags().StringArrayVar(&opts.Meta, "meta", nil, "event meta field as key=value (repeatable)")

	return cmd
}

func runTrack(opts *TrackOptions, name string, cmd *cobra.Command) error {
	data, err := mergeData(opts.DataJSON, opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid event data", err)
	}
	meta, err := parseFields(opts.Meta)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid event meta", err)
	}

	var trackOpts []trackkit.TrackOption
	if len(meta) > 0 {
		trackOpts = append(trackOpts, trackkit.WithEventMeta(meta))
	}

	return withSession(opts.RootOptions, cmd, func(rt *runtime, s *trackkit.Session) error {
		res := TrackResult{Event: name, ClientID: s.Identity().ClientID}
		if err := s.TrackEvent(cmd.Context(), name, data, trackOpts...); err != nil {
			code := ExitFailure
			if errors.Is(err, trackkit.ErrEmptyEventName) {
				code = ExitCommandError
			}
			return rt.out.Failure(code, "track event", err, nil)
		}
		return rt.out.Success(res)
	})
}
