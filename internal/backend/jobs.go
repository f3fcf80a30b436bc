package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const (
	jobsSyncPath    = "/api/jobs/sync"
	jobsSearchPath  = "/api/jobs/search"
	jobsCompanyPath = "/api/jobs/company/"
)

// SearchParams are forwarded to the backend search. Empty values and All are omitted.
type SearchParams struct {
	Query    string `mapstructure:"q"`
	Location string `mapstructure:"location"`
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	if v := strings.TrimSpace(p.Query); v != "" {
		q.Set("q", v)
	}
	if v := strings.TrimSpace(p.Location); v != "" && v != All {
		q.Set("location", v)
	}
	return q
}

// SyncJobs asks the backend to refresh its job listings.
func (c *Client) SyncJobs(ctx context.Context) (*SyncResult, error) {
	const op = "sync jobs"

	var raw any
	if err := c.do(ctx, call{op: op, method: http.MethodPost, path: jobsSyncPath}, &raw); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	if _, ok := raw.(map[string]any); ok {
		if err := decodeItems(op, raw, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *Client) SearchJobs(ctx context.Context, params SearchParams) ([]Job, error) {
	return c.getJobs(ctx, call{
		op:     "search jobs",
		method: http.MethodGet,
		path:   jobsSearchPath,
		query:  params.values(),
	})
}

func (c *Client) JobsByCompany(ctx context.Context, company string) ([]Job, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, errors.New("company is required")
	}

	return c.getJobs(ctx, call{
		op:     "jobs by company",
		method: http.MethodGet,
		path:   jobsCompanyPath + url.PathEscape(company),
	})
}

func (c *Client) getJobs(ctx context.Context, cl call) ([]Job, error) {
	var raw any
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}

	items, err := listField(raw, "jobs")
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: cl.op, Message: "unexpected response body", Err: err}
	}

	jobs := make([]Job, 0, len(items))
	if err := decodeItems(cl.op, items, &jobs); err != nil {
		return nil, err
	}

	return jobs, nil
}
