package filtering

import (
	"strings"

	"github.com/spigell/netmatch/internal/backend"
)

// Jobs keeps jobs whose title, company or description contains the search
// term and whose location equals the location filter, both case-insensitively.
func Jobs(jobs []backend.Job, c Criteria) []backend.Job {
	out := make([]backend.Job, 0, len(jobs))
	term := strings.ToLower(c.SearchTerm)

	for _, job := range jobs {
		if term != "" && !containsFold(term, job.Title, job.Company, job.Description) {
			continue
		}
		if !isAll(c.Location) && !strings.EqualFold(job.Location, c.Location) {
			continue
		}
		out = append(out, job)
	}

	return out
}

func UniqueLocations(jobs []backend.Job) []string {
	locations := make([]string, 0, len(jobs))
	for _, job := range jobs {
		locations = append(locations, job.Location)
	}
	return uniqueSorted(locations)
}
