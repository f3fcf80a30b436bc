package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/filtering"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show companies with open positions where your connections work",
	Run: func(cmd *cobra.Command, _ []string) {
		sortBy, _ := cmd.Flags().GetString("sort")
		runView("matches", func(ctx context.Context, e *env) error {
			return matches(ctx, e, readViewOptions(cmd, "companies", e.config.PerPage), sortBy)
		})
	},
}

func init() {
	rootCmd.AddCommand(matchesCmd)

	addViewFlags(matchesCmd, "companies", "list the matched companies")
	matchesCmd.Flags().String("sort", filtering.SortByConnections, "sort by connections, company or title")
}

func matches(ctx context.Context, e *env, opts viewOptions, sortBy string) error {
	all, err := loadMatches(ctx, e)
	if err != nil || all == nil {
		return err
	}

	if opts.values {
		renderList("Companies", filtering.MatchCompanies(all))
		return nil
	}

	filtered := filtering.Matches(all, opts.criteria)
	filtering.NewStep("matches", len(all), len(filtered)).Log(e.logger, opts.criteria)

	sorted, err := filtering.SortMatches(filtered, sortBy)
	if err != nil {
		return err
	}

	if opts.stats {
		renderMatchStats(filtering.CalculateMatchStats(sorted))
	}

	if len(sorted) == 0 {
		renderEmpty("matches")
		return nil
	}

	p, page := paginate(sorted, opts)
	renderMatches(page)
	renderPager(p, "matches", len(all))

	return nil
}

// loadMatches fetches the session's matches.
// A nil slice with a nil error means the empty state was rendered.
func loadMatches(ctx context.Context, e *env) ([]backend.Match, error) {
	token := e.activeToken(ctx)
	if token == "" {
		return nil, nil
	}

	matches, err := e.client.Matches(ctx, token)
	if err != nil {
		if e.dropSessionOn(ctx, err) {
			renderNoSession()
			return nil, nil
		}
		pterm.Error.Printfln("Loading matches failed: %s", backend.Message(err))
		return nil, err
	}

	if matches == nil {
		matches = []backend.Match{}
	}

	return matches, nil
}
