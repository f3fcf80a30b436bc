package filtering

import "github.com/spigell/netmatch/internal/backend"

type ConnectionStats struct {
	Total     int
	Companies int
	Locations int
}

func CalculateConnectionStats(connections []backend.Connection) ConnectionStats {
	companies := make(map[string]struct{})
	locations := make(map[string]struct{})

	for _, conn := range connections {
		if conn.Company != "" {
			companies[conn.Company] = struct{}{}
		}
		if conn.Location != "" {
			locations[conn.Location] = struct{}{}
		}
	}

	return ConnectionStats{
		Total:     len(connections),
		Companies: len(companies),
		Locations: len(locations),
	}
}

// Connection strength buckets by connections per match.
const (
	strongThreshold = 3
	mediumThreshold = 2
)

type MatchStats struct {
	Matches     int
	Jobs        int
	Connections int
	Companies   int
	// Strong has more than 3 connections, Medium 2-3, Weak exactly 1.
	Strong int
	Medium int
	Weak   int
	// AverageConnections is per match.
	AverageConnections float64
	PerCompany         map[string]int
}

func CalculateMatchStats(matches []backend.Match) MatchStats {
	stats := MatchStats{
		Matches:    len(matches),
		PerCompany: make(map[string]int),
	}

	for _, m := range matches {
		count := len(m.Connections)
		stats.Jobs += len(m.Jobs)
		stats.Connections += count

		if m.Company != "" {
			stats.PerCompany[m.Company] += count
		}

		switch {
		case count > strongThreshold:
			stats.Strong++
		case count >= mediumThreshold:
			stats.Medium++
		case count == 1:
			stats.Weak++
		}
	}

	stats.Companies = len(stats.PerCompany)
	if stats.Matches > 0 {
		stats.AverageConnections = float64(stats.Connections) / float64(stats.Matches)
	}

	return stats
}
