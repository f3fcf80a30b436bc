package filtering

import (
	"strings"

	"github.com/spigell/netmatch/internal/backend"
)

// Connections keeps connections whose name, title or company contains the
// search term (case-insensitive) and whose company equals the company filter exactly.
// A nil list yields an empty result.
func Connections(connections []backend.Connection, c Criteria) []backend.Connection {
	out := make([]backend.Connection, 0, len(connections))
	term := strings.ToLower(c.SearchTerm)

	for _, conn := range connections {
		if term != "" && !containsFold(term, conn.Name, conn.Title, conn.Position, conn.Company) {
			continue
		}
		if !isAll(c.Company) && conn.Company != c.Company {
			continue
		}
		out = append(out, conn)
	}

	return out
}

// UniqueCompanies returns the distinct, non-empty companies sorted alphabetically.
func UniqueCompanies(connections []backend.Connection) []string {
	companies := make([]string, 0, len(connections))
	for _, conn := range connections {
		companies = append(companies, conn.Company)
	}
	return uniqueSorted(companies)
}

// GroupByCompany buckets connections by company, skipping those without one.
func GroupByCompany(connections []backend.Connection) map[string][]backend.Connection {
	groups := make(map[string][]backend.Connection)
	for _, conn := range connections {
		if conn.Company == "" {
			continue
		}
		groups[conn.Company] = append(groups[conn.Company], conn)
	}
	return groups
}
