package cmd

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/filtering"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List job postings collected by the backend",
	Run: func(cmd *cobra.Command, _ []string) {
		runView("jobs", func(ctx context.Context, e *env) error {
			return jobs(ctx, e, cmd)
		})
	},
}

var jobsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ask the backend to refresh its job postings",
	Run: func(_ *cobra.Command, _ []string) {
		runView("jobs", syncJobs)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsSyncCmd)

	addViewFlags(jobsCmd, "locations", "list the locations of the jobs")
	jobsCmd.Flags().StringP("location", "l", filtering.All, "show only this location")
	jobsCmd.Flags().StringP("query", "q", "", "search term forwarded to the backend")
	jobsCmd.Flags().Bool("sync", false, "refresh jobs on the backend before listing")
	jobsCmd.Flags().String("show", "", "print the details of the job with this ID")
}

func jobs(ctx context.Context, e *env, cmd *cobra.Command) error {
	opts := readViewOptions(cmd, "locations", e.config.PerPage)

	if doSync, _ := cmd.Flags().GetBool("sync"); doSync {
		if err := syncJobs(ctx, e); err != nil {
			return err
		}
	}

	params := *e.config.Search
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		params.Query = q
	}
	if !isAll(opts.criteria.Location) {
		params.Location = opts.criteria.Location
	}

	all, err := fetchJobs(ctx, e, params, opts.criteria.Company)
	if err != nil {
		pterm.Error.Printfln("Loading jobs failed: %s", backend.Message(err))
		return err
	}

	if id, _ := cmd.Flags().GetString("show"); id != "" {
		for _, j := range all {
			if j.ID == id {
				renderJob(j)
				return nil
			}
		}
		pterm.Warning.Printfln("Job %s not found.", id)
		return nil
	}

	if opts.values {
		renderList("Locations", filtering.UniqueLocations(all))
		return nil
	}

	filtered := filtering.Jobs(all, opts.criteria)
	filtering.NewStep("jobs", len(all), len(filtered)).Log(e.logger, opts.criteria)

	if len(filtered) == 0 {
		renderEmpty("jobs")
		return nil
	}

	p, page := paginate(filtered, opts)
	renderJobs(page)
	renderPager(p, "jobs", len(all))

	return nil
}

// fetchJobs uses the company endpoint when a company is set and the search endpoint otherwise.
func fetchJobs(ctx context.Context, e *env, params backend.SearchParams, company string) ([]backend.Job, error) {
	if !isAll(company) {
		return e.client.JobsByCompany(ctx, company)
	}
	return e.client.SearchJobs(ctx, params)
}

func syncJobs(ctx context.Context, e *env) error {
	spinner, _ := pterm.DefaultSpinner.Start("Syncing jobs...")

	result, err := e.client.SyncJobs(ctx)
	if err != nil {
		spinner.Fail("Sync failed: " + backend.Message(err))
		return err
	}

	msg := "Jobs synced."
	if result.Message != "" {
		msg = result.Message
	}
	spinner.Success(msg)

	e.logger.Info("jobs synced", zap.Int("count", result.Count))

	return nil
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == filtering.All
}
