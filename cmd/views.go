package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/netmatch/internal/filtering"
	"github.com/spigell/netmatch/internal/pagination"
)

// viewOptions is the filter and paging state shared by the list views.
type viewOptions struct {
	criteria filtering.Criteria
	page     int
	perPage  int
	stats    bool
	values   bool
}

// addViewFlags registers the common flags. valuesFlag names the switch that lists distinct values instead of items.
func addViewFlags(cmd *cobra.Command, valuesFlag, valuesHelp string) {
	cmd.Flags().StringP("search", "s", "", "case-insensitive search term")
	cmd.Flags().StringP("company", "c", filtering.All, "show only this company")
	cmd.Flags().IntP("page", "p", 1, "page to show")
	cmd.Flags().Int("per-page", 0, "items per page (default from config)")
	cmd.Flags().Bool("stats", false, "print summary statistics")
	cmd.Flags().Bool(valuesFlag, false, valuesHelp)
}

func readViewOptions(cmd *cobra.Command, valuesFlag string, defaultPerPage int) viewOptions {
	flags := cmd.Flags()

	opts := viewOptions{perPage: defaultPerPage}
	opts.criteria.SearchTerm, _ = flags.GetString("search")
	opts.criteria.Company, _ = flags.GetString("company")
	opts.page, _ = flags.GetInt("page")
	opts.stats, _ = flags.GetBool("stats")
	opts.values, _ = flags.GetBool(valuesFlag)

	if perPage, _ := flags.GetInt("per-page"); perPage > 0 {
		opts.perPage = perPage
	}
	if flags.Lookup("location") != nil {
		opts.criteria.Location, _ = flags.GetString("location")
	}

	return opts
}

// paginate clamps the requested page against the filtered items and returns the page slice.
func paginate[T any](items []T, opts viewOptions) (*pagination.Paginator, []T) {
	p := pagination.New(len(items), opts.perPage)
	p.GoTo(opts.page)
	return p, pagination.Slice(p, items)
}
