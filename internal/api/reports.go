package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"cems-client/internal/model"
)

// ReportFilter narrows the report listing.
type ReportFilter struct {
	Search string
	Type   string
	Status string
	Period string
}

// ListReports fetches one page of generated reports.
func (c *Client) ListReports(
	ctx context.Context,
	page, limit int,
	filter ReportFilter,
) (*model.ReportList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Period != "" {
		q.Set("period", filter.Period)
	}

	var list model.ReportList
	if err := c.Get(ctx, "/reports?"+q.Encode(), &list); err != nil {
		return nil, fmt.Errorf("fetching reports: %w", err)
	}
	return &list, nil
}

// GenerateReport asks the backend to produce a new report. The file is
// rendered server-side; the client polls the listing for its status.
func (c *Client) GenerateReport(ctx context.Context, req model.ReportRequest) error {
	if err := c.Post(ctx, "/generate-report", req, nil); err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	return nil
}

// DeleteReport removes a generated report entry.
func (c *Client) DeleteReport(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/reports/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting report %s: %w", id, err)
	}
	return nil
}
