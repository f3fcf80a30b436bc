package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/filtering"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List the connections of the active session",
	Run: func(cmd *cobra.Command, _ []string) {
		runView("connections", func(ctx context.Context, e *env) error {
			return connections(ctx, e, readViewOptions(cmd, "companies", e.config.PerPage))
		})
	},
}

func init() {
	rootCmd.AddCommand(connectionsCmd)
	addViewFlags(connectionsCmd, "companies", "list the companies your connections work at with counts")
}

func connections(ctx context.Context, e *env, opts viewOptions) error {
	all, err := loadConnections(ctx, e)
	if err != nil || all == nil {
		return err
	}

	if opts.values {
		renderCompanyCounts(filtering.UniqueCompanies(all), filtering.GroupByCompany(all))
		return nil
	}

	filtered := filtering.Connections(all, opts.criteria)
	filtering.NewStep("connections", len(all), len(filtered)).Log(e.logger, opts.criteria)

	if opts.stats {
		renderConnectionStats(filtering.CalculateConnectionStats(filtered))
	}

	if len(filtered) == 0 {
		renderEmpty("connections")
		return nil
	}

	p, page := paginate(filtered, opts)
	renderConnections(page)
	renderPager(p, "connections", len(all))

	return nil
}

// loadConnections fetches the session's connections.
// A nil slice with a nil error means the empty state was rendered.
func loadConnections(ctx context.Context, e *env) ([]backend.Connection, error) {
	token := e.activeToken(ctx)
	if token == "" {
		return nil, nil
	}

	connections, err := e.client.Connections(ctx, token)
	if err != nil {
		if e.dropSessionOn(ctx, err) {
			renderNoSession()
			return nil, nil
		}
		pterm.Error.Printfln("Loading connections failed: %s", backend.Message(err))
		return nil, err
	}

	if connections == nil {
		connections = []backend.Connection{}
	}

	return connections, nil
}
