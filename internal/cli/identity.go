package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/trackkit"
)

// IdentityResult is the identity reported by heartbeat and identity show.
type IdentityResult struct {
	ClientID    string `json:"client_id"`
	Signature   string `json:"signature"`
	UUID        string `json:"uuid"`
	Fingerprint string `json:"fingerprint"`
	AnonymousID string `json:"anonymous_id,omitempty"`
	Backend     string `json:"backend"`
}

func newIdentityResult(s *trackkit.Session) IdentityResult {
	id := s.Identity()
	return IdentityResult{
		ClientID:    id.ClientID,
		Signature:   id.Signature,
		UUID:        id.UUID,
		Fingerprint: id.Fingerprint,
		Backend:     s.Backend().String(),
	}
}

func (r IdentityResult) WriteText(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v == "" {
			v = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", k, v)
	}
	row("client id", r.ClientID)
	row("signature", r.Signature)
	row("uuid", r.UUID)
	row("fingerprint", r.Fingerprint)
	if r.AnonymousID != "" {
		row("anonymous id", r.AnonymousID)
	}
	row("persistence", r.Backend)
	_ = tw.Flush()
}

// message is a one-line result.
type message struct {
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (m message) WriteText(w io.Writer) {
	if m.Value != "" {
		_, _ = fmt.Fprintf(w, "%s: %s\n", m.Message, m.Value)
		return
	}
	_, _ = fmt.Fprintln(w, m.Message)
}

// NewIdentityCommand creates the identity command group.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Show or reset the persisted client identity",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Initialize and print the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(rootOpts, cmd, func(rt *runtime, s *trackkit.Session) error {
				res := newIdentityResult(s)
				res.AnonymousID = s.AnonymousID(cmd.Context())
				return rt.out.Success(res)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the persisted uuid, signature and anonymous id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(rootOpts, cmd, func(rt *runtime, s *trackkit.Session) error {
				s.ClearIdentity(cmd.Context())
				return rt.out.Success(message{Message: "identity cleared"})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "regenerate-anonymous-id",
		Short: "Replace the persisted anonymous id with a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(rootOpts, cmd, func(rt *runtime, s *trackkit.Session) error {
				id := s.RegenerateAnonymousID(cmd.Context())
				return rt.out.Success(message{Message: "anonymous id", Value: id})
			})
		},
	})

	return cmd
}

// withSession opens a runtime and a session for the duration of fn.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(*runtime, *trackkit.Session) error, sessionOpts ...trackkit.Option) (err error) {
	rt, err := newRuntime(opts, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "close", cerr)
		}
	}()

	s, err := rt.openSession(cmd.Context(), sessionOpts...)
	if err != nil {
		return err
	}
	return fn(rt, s)
}
