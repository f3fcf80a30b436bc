package backend

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

const matchingPath = "/api/matching/"

// Matches returns the company matches computed for sessionID.
// Entries without jobs or without a connections list are dropped.
func (c *Client) Matches(ctx context.Context, sessionID string) ([]Match, error) {
	const op = "get matches"

	path, err := sessionPath(op, matchingPath, sessionID)
	if err != nil {
		return nil, err
	}

	var raw any
	cl := call{op: op, method: http.MethodGet, path: path, sessionScoped: true}
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}

	items, err := listField(raw, "matches")
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Message: "unexpected response body", Err: err}
	}

	usable := make([]any, 0, len(items))
	for _, item := range items {
		entry, ok := usableMatch(item)
		if !ok {
			continue
		}
		usable = append(usable, entry)
	}

	matches := make([]Match, 0, len(usable))
	if err := decodeItems(op, usable, &matches); err != nil {
		return nil, err
	}

	if dropped := len(items) - len(usable); dropped > 0 {
		c.logger.Debug("dropped incomplete matches", zap.Int("dropped", dropped), zap.Int("left", len(matches)))
	}

	return matches, nil
}

// usableMatch normalizes a raw match entry. A single job object is wrapped into a list.
func usableMatch(item any) (map[string]any, bool) {
	entry, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}

	if _, ok := entry["connections"].([]any); !ok {
		return nil, false
	}

	switch jobs := entry["jobs"].(type) {
	case []any:
		if len(jobs) == 0 {
			return nil, false
		}
	case map[string]any:
		if len(jobs) == 0 {
			return nil, false
		}
		normalized := make(map[string]any, len(entry))
		for k, v := range entry {
			normalized[k] = v
		}
		normalized["jobs"] = []any{jobs}
		return normalized, true
	default:
		return nil, false
	}

	return entry, true
}
