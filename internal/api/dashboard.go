package api

import (
	"context"
	"fmt"

	"cems-client/internal/model"
)

// DashboardStats fetches the admin dashboard summary.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, fmt.Errorf("fetching dashboard stats: %w", err)
	}
	return &stats, nil
}

// ParticipationChart fetches the monthly participation series.
func (c *Client) ParticipationChart(ctx context.Context) (*model.ChartSeries, error) {
	var series model.ChartSeries
	if err := c.Get(ctx, "/charts/participation", &series); err != nil {
		return nil, fmt.Errorf("fetching participation chart: %w", err)
	}
	return &series, nil
}

// ActivityHoursChart fetches activity hours grouped by category.
func (c *Client) ActivityHoursChart(ctx context.Context) (*model.ChartSeries, error) {
	var series model.ChartSeries
	if err := c.Get(ctx, "/charts/activity-hours", &series); err != nil {
		return nil, fmt.Errorf("fetching activity hours chart: %w", err)
	}
	return &series, nil
}
