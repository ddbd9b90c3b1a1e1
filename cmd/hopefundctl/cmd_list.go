package main

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hopefund/internal/campaign"
	"hopefund/internal/format"
)

type listFlags struct {
	search   string
	category string
	sort     string
	page     int
}

func newListCmd(opts *options) *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print campaigns as the causes page would list them",
		Example: `  hopefundctl list --category healthcare --sort urgent
  hopefundctl list --catalog campaigns.yaml --search water --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, f)
		},
	}
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match title, description, location or organizer")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "education, healthcare, disaster, environment or community")
	cmd.Flags().StringVar(&f.sort, "sort", string(campaign.SortRecent), "recent, urgent, popular, progress or amount")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "load-more position, 9 campaigns per page")
	return cmd
}

func runList(cmd *cobra.Command, opts *options, f listFlags) error {
	campaigns, err := opts.campaigns()
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("search", f.search)
	q.Set("category", f.category)
	q.Set("sort", f.sort)
	q.Set("page", strconv.Itoa(f.page))
	state := campaign.ParseQuery(q)
	listing := campaign.Compute(campaigns, state)

	opts.logger(cmd).Debug("computed listing",
		"loaded", len(campaigns),
		"matched", listing.Total(),
		"page", listing.State.Page,
	)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, listing.ResultsText())
	if listing.Total() == 0 {
		return nil
	}

	now := opts.now()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tRAISED\tGOAL\tFUNDED\tDEADLINE")
	for _, c := range listing.Visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
			c.ID,
			c.Title,
			c.Category.DisplayName(),
			format.Currency(c.Raised),
			format.Currency(c.Goal),
			campaign.Percentage(c.Raised, c.Goal),
			format.TimeLeft(c.Deadline, now),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if listing.HasMore {
		fmt.Fprintf(out, "showing %d of %d, next: --page %d\n",
			len(listing.Visible), listing.Total(), listing.NextState().Page)
	}
	return nil
}
