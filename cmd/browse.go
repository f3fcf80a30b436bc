package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/filtering"
	"github.com/spigell/netmatch/internal/pagination"
)

const (
	PromptMatches     = "Matches"
	PromptJobs        = "Jobs"
	PromptConnections = "Connections"
	PromptSync        = "Sync jobs"
	PromptQuit        = "Quit"

	PromptNext     = "Next page"
	PromptPrevious = "Previous page"
	PromptGoTo     = "Go to page"
	PromptSearch   = "Search"
	PromptCompany  = "Filter by company"
	PromptLocation = "Filter by location"
	PromptBack     = "Back"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse matches, jobs and connections interactively",
	Run: func(_ *cobra.Command, _ []string) {
		runView("browse", browse)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// listing is one browsable list with its filter state.
type listing struct {
	noun      string
	total     int
	criteria  filtering.Criteria
	pager     *pagination.Paginator
	companies []string
	locations []string
	// apply refilters and returns the number of items left.
	apply func(filtering.Criteria) int
	// render prints the current page.
	render func(*pagination.Paginator)
}

// browse runs the menu loop. Failures to load a list are reported and the menu is shown again.
func browse(ctx context.Context, e *env) error {
	menu := promptui.Select{
		Label: "What do you want to browse?",
		Items: []string{PromptMatches, PromptJobs, PromptConnections, PromptSync, PromptQuit},
	}

	for {
		_, choice, err := menu.Run()
		if err != nil {
			if isPromptExit(err) {
				return nil
			}
			return fmt.Errorf("reading the menu: %w", err)
		}

		switch choice {
		case PromptQuit:
			return nil
		case PromptSync:
			if err := syncJobs(ctx, e); err != nil {
				e.logger.Error("syncing jobs", zap.Error(err))
			}
			continue
		}

		l, err := openListing(ctx, e, choice)
		if err != nil {
			e.logger.Error("loading list", zap.Error(err), zap.String("list", choice))
			continue
		}
		if l == nil {
			continue
		}

		if err := l.run(e.logger); err != nil {
			if isPromptExit(err) {
				return nil
			}
			return fmt.Errorf("browsing %s: %w", l.noun, err)
		}
	}
}

// openListing loads the list behind a menu choice. A nil listing with a nil error means
// the empty state was rendered.
func openListing(ctx context.Context, e *env, choice string) (*listing, error) {
	switch choice {
	case PromptMatches:
		return matchesListing(ctx, e)
	case PromptJobs:
		return jobsListing(ctx, e)
	case PromptConnections:
		return connectionsListing(ctx, e)
	default:
		return nil, fmt.Errorf("invalid choice: %s", choice)
	}
}

func isPromptExit(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

func newListing(noun string, total, perPage int) *listing {
	return &listing{
		noun:  noun,
		total: total,
		pager: pagination.New(total, perPage),
	}
}

func (l *listing) refilter(logger *zap.Logger) {
	left := l.apply(l.criteria)
	filtering.NewStep(l.noun, l.total, left).Log(logger, l.criteria)

	l.pager.SetTotal(left)
	l.pager.GoTo(1)

	if logger != nil {
		logger.Debug("pager reset",
			zap.String("list", l.noun),
			zap.Int("per_page", l.pager.PageSize()),
			zap.Int("pages", l.pager.TotalPages()),
		)
	}
}

func (l *listing) run(logger *zap.Logger) error {
	l.refilter(logger)

	for {
		if l.pager.TotalItems() == 0 {
			renderEmpty(l.noun)
		} else {
			l.render(l.pager)
			renderPager(l.pager, l.noun, l.total)
		}

		actions := pageActions(l.pager, len(l.companies) > 0, len(l.locations) > 0)
		_, action, err := (&promptui.Select{Label: "Action", Items: actions}).Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptBack:
			return nil
		case PromptNext:
			l.pager.Next()
		case PromptPrevious:
			l.pager.Previous()
		case PromptGoTo:
			n, err := askPage(l.pager)
			if err != nil {
				return err
			}
			l.pager.GoTo(n)
		case PromptSearch:
			term, err := (&promptui.Prompt{Label: "Search", Default: l.criteria.SearchTerm, AllowEdit: true}).Run()
			if err != nil {
				return err
			}
			l.criteria.SearchTerm = strings.TrimSpace(term)
			l.refilter(logger)
		case PromptCompany:
			company, err := pick("Company", l.companies)
			if err != nil {
				return err
			}
			l.criteria.Company = company
			l.refilter(logger)
		case PromptLocation:
			location, err := pick("Location", l.locations)
			if err != nil {
				return err
			}
			l.criteria.Location = location
			l.refilter(logger)
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

// pageActions lists the actions that make sense on the current page.
func pageActions(p *pagination.Paginator, companies, locations bool) []string {
	actions := make([]string, 0, 7)
	if p.HasNext() {
		actions = append(actions, PromptNext)
	}
	if p.HasPrevious() {
		actions = append(actions, PromptPrevious)
	}
	if p.TotalPages() > 1 {
		actions = append(actions, PromptGoTo)
	}
	actions = append(actions, PromptSearch)
	if companies {
		actions = append(actions, PromptCompany)
	}
	if locations {
		actions = append(actions, PromptLocation)
	}
	return append(actions, PromptBack)
}

func askPage(p *pagination.Paginator) (int, error) {
	prompt := promptui.Prompt{
		Label:    fmt.Sprintf("Page (1-%d)", p.TotalPages()),
		Default:  strconv.Itoa(p.Page()),
		Validate: validatePage,
	}

	input, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	// Out of range values are clamped by the paginator.
	return strconv.Atoi(strings.TrimSpace(input))
}

func validatePage(input string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(input)); err != nil {
		return errors.New("page must be a number")
	}
	return nil
}

// pick offers "all" followed by values.
func pick(label string, values []string) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: append([]string{filtering.All}, values...),
		Size:  10,
	}

	_, choice, err := prompt.Run()
	return choice, err
}

func matchesListing(ctx context.Context, e *env) (*listing, error) {
	all, err := loadMatches(ctx, e)
	if err != nil || all == nil {
		return nil, err
	}

	sorted, err := filtering.SortMatches(all, filtering.SortByConnections)
	if err != nil {
		return nil, err
	}

	l := newListing("matches", len(sorted), e.config.PerPage)
	l.companies = filtering.MatchCompanies(sorted)

	var filtered []backend.Match
	l.apply = func(c filtering.Criteria) int {
		filtered = filtering.Matches(sorted, c)
		return len(filtered)
	}
	l.render = func(p *pagination.Paginator) {
		renderMatches(pagination.Slice(p, filtered))
	}

	return l, nil
}

func jobsListing(ctx context.Context, e *env) (*listing, error) {
	spinner, _ := pterm.DefaultSpinner.Start("Loading jobs...")
	all, err := e.client.SearchJobs(ctx, *e.config.Search)
	if err != nil {
		spinner.Fail("Loading jobs failed: " + backend.Message(err))
		return nil, err
	}
	_ = spinner.Stop()

	l := newListing("jobs", len(all), e.config.PerPage)
	l.locations = filtering.UniqueLocations(all)

	var filtered []backend.Job
	l.apply = func(c filtering.Criteria) int {
		filtered = filtering.Jobs(all, c)
		return len(filtered)
	}
	l.render = func(p *pagination.Paginator) {
		renderJobs(pagination.Slice(p, filtered))
	}

	return l, nil
}

func connectionsListing(ctx context.Context, e *env) (*listing, error) {
	all, err := loadConnections(ctx, e)
	if err != nil || all == nil {
		return nil, err
	}

	l := newListing("connections", len(all), e.config.PerPage)
	l.companies = filtering.UniqueCompanies(all)

	var filtered []backend.Connection
	l.apply = func(c filtering.Criteria) int {
		filtered = filtering.Connections(all, c)
		return len(filtered)
	}
	l.render = func(p *pagination.Paginator) {
		renderConnections(pagination.Slice(p, filtered))
	}

	return l, nil
}
