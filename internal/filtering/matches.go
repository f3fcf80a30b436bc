package filtering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/netmatch/internal/backend"
)

const (
	SortByConnections = "connections"
	SortByCompany     = "company"
	SortByTitle       = "title"
)

// Matches keeps matches at the filtered company (case-insensitive) that have a job
// title or a connection name/position containing the search term.
//
// When only jobs hit, the match is narrowed to those jobs and keeps every
// connection. When only connections hit, it is narrowed to those connections and
// keeps every job. When both hit, the match is kept whole.
func Matches(matches []backend.Match, c Criteria) []backend.Match {
	out := make([]backend.Match, 0, len(matches))
	term := strings.ToLower(c.SearchTerm)

	for _, m := range matches {
		if len(m.Jobs) == 0 && len(m.Connections) == 0 {
			continue
		}
		if !isAll(c.Company) && !strings.EqualFold(m.Company, c.Company) {
			continue
		}
		if term == "" {
			out = append(out, m)
			continue
		}

		jobs := make([]backend.Job, 0, len(m.Jobs))
		for _, job := range m.Jobs {
			if containsFold(term, job.Title) {
				jobs = append(jobs, job)
			}
		}

		connections := make([]backend.Connection, 0, len(m.Connections))
		for _, conn := range m.Connections {
			if containsFold(term, conn.Name, conn.Position, conn.Title) {
				connections = append(connections, conn)
			}
		}

		jobHit, connectionHit := len(jobs) > 0, len(connections) > 0
		if !jobHit && !connectionHit {
			continue
		}

		narrowed := m
		if !connectionHit {
			narrowed.Jobs = jobs
		}
		if !jobHit {
			narrowed.Connections = connections
		}
		out = append(out, narrowed)
	}

	return out
}

// MatchCompanies returns the distinct companies present in matches.
func MatchCompanies(matches []backend.Match) []string {
	companies := make([]string, 0, len(matches))
	for _, m := range matches {
		companies = append(companies, m.Company)
	}
	return uniqueSorted(companies)
}

// SortMatches returns a stably sorted copy of matches.
func SortMatches(matches []backend.Match, by string) ([]backend.Match, error) {
	sorted := make([]backend.Match, len(matches))
	copy(sorted, matches)

	var less func(a, b backend.Match) bool
	switch strings.ToLower(strings.TrimSpace(by)) {
	case "", SortByConnections:
		less = func(a, b backend.Match) bool { return len(a.Connections) > len(b.Connections) }
	case SortByCompany:
		less = func(a, b backend.Match) bool { return a.Company < b.Company }
	case SortByTitle:
		less = func(a, b backend.Match) bool { return firstTitle(a) < firstTitle(b) }
	default:
		return nil, fmt.Errorf("unsupported sort order: %s", by)
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}

func firstTitle(m backend.Match) string {
	if len(m.Jobs) == 0 {
		return ""
	}
	return m.Jobs[0].Title
}
