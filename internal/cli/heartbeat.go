package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/trackkit"
)

// NewHeartbeatCommand creates the heartbeat command.
func NewHeartbeatCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Perform the heartbeat handshake and print the identity",
		Long: `Perform the heartbeat handshake and print the resulting identity.

The persisted uuid and signature are sent to the collector and the fresh
values it returns are persisted for the next run. Exits with status 1 when
the collector cannot be reached or rejects the handshake.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(rootOpts, cmd, func(rt *runtime, s *trackkit.Session) error {
				res := newIdentityResult(s)
				if err := s.HandshakeError(); err != nil {
					return rt.out.Failure(ExitFailure, "heartbeat", err, res)
				}
				return rt.out.Success(res)
			})
		},
	}
}
