// Package filtering narrows, groups and summarizes backend data on the client.
// Every function returns fresh slices and leaves its input untouched.
package filtering

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/netmatch/internal/backend"
)

// All disables a categorical filter.
const All = backend.All

// Criteria is the per-view filter state.
type Criteria struct {
	SearchTerm string `mapstructure:"search"`
	Company    string `mapstructure:"company"`
	Location   string `mapstructure:"location"`
}

// Step describes the result of executing a filtering pass.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

func NewStep(name string, initial, left int) Step {
	return Step{Name: name, Initial: initial, Dropped: initial - left, Left: left}
}

// Log writes the step the same way for every view.
func (s Step) Log(logger *zap.Logger, c Criteria) {
	if logger == nil {
		return
	}

	logger.Info("filter step",
		zap.String("name", s.Name),
		zap.String("search", c.SearchTerm),
		zap.String("company", valueOrAll(c.Company)),
		zap.String("location", valueOrAll(c.Location)),
		zap.Int("initial", s.Initial),
		zap.Int("dropped", s.Dropped),
		zap.Int("left", s.Left),
	)
}

func isAll(v string) bool {
	return v == "" || v == All
}

func valueOrAll(v string) string {
	if isAll(v) {
		return All
	}
	return v
}

// containsFold reports whether any of fields contains the already lowercased term.
func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// uniqueSorted returns the distinct non-empty values in ascending order.
func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
