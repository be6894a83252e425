package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/trackkit"
)

// PageOptions holds flags for the page command.
type PageOptions struct {
	*RootOptions
	URL      string
	Title    string
	Referrer string
	PageLoad bool
	Data     []string
	Meta     []string
}

// NewPageCommand creates the page command.
func NewPageCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PageOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Send a page visit",
		Long: `Send EVENT_PAGE_VISITED for the given page.

Page metadata (origin, path, search, hash, referrer domain) is derived from
--url and --referrer. --meta fields override the derived values.

Example:
  trackkit page --url 'https://shop.example.com/cart?step=2' --title Cart --page-load`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "page URL")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title")
	cmd.Flags().StringVar(&opts.Referrer, "referrer", "", "referring URL")
	cmd.Flags().BoolVar(&opts.PageLoad, "page-load", false, "mark the visit as an initial page load")
	cmd.Flags().StringArrayVarP(&opts.Data, "data", "d", nil, "extra event data field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Meta, "meta", nil, "page meta override as key=value (repeatable)")

	return cmd
}

func runPage(opts *PageOptions, cmd *cobra.Command) error {
	data, err := parseFields(opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid event data", err)
	}
	meta, err := parseFields(opts.Meta)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid page meta", err)
	}
	if opts.PageLoad {
		meta["pageLoad"] = true
	}
	data["meta"] = meta

	page := trackkit.StaticPage{URL: opts.URL, Title: opts.Title, Referrer: opts.Referrer}
	return withSession(opts.RootOptions, cmd, func(rt *runtime, s *trackkit.Session) error {
		if err := s.PageVisited(cmd.Context(), data); err != nil {
			return rt.out.Failure(ExitFailure, "page visit", err, nil)
		}
		return rt.out.Success(TrackResult{Event: trackkit.EventPageVisited, ClientID: s.Identity().ClientID})
	}, trackkit.WithPageSource(page))
}
