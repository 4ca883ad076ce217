package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amaumene/gostremiour/internal/scraper"
	"github.com/amaumene/gostremiour/pkg/httputil"
)

func newListingCommand(ctx *commandContext) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "listing <url>",
		Short: "Print the episode links of one listing page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := scraper.PageURL(args[0], page)
			fetcher := scraper.NewFetcher(httputil.NewDefaultHTTPClient(), scraper.GoqueryReader{})

			anchors, err := fetcher.Anchors(cmd.Context(), pageURL)
			if err != nil {
				return err
			}

			episodes := scraper.EpisodeAnchors(pageURL, anchors)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d anchors, %d episode links\n", pageURL, len(anchors), len(episodes))
			for _, a := range episodes {
				fmt.Fprintf(out, "  %-50s %s\n", a.Text, a.Href)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Listing page number")
	return cmd
}
