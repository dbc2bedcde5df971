package api

import (
	"context"
	"fmt"

	"cems-client/internal/model"
)

// ListClubs fetches all approved clubs.
func (c *Client) ListClubs(ctx context.Context) ([]model.Club, error) {
	var clubs []model.Club
	if err := c.Get(ctx, "/clubs", &clubs); err != nil {
		return nil, fmt.Errorf("fetching clubs: %w", err)
	}
	return clubs, nil
}

// Club fetches one club by ID.
func (c *Client) Club(ctx context.Context, id int) (*model.Club, error) {
	var club model.Club
	if err := c.Get(ctx, fmt.Sprintf("/clubs/%d", id), &club); err != nil {
		return nil, fmt.Errorf("fetching club %d: %w", id, err)
	}
	return &club, nil
}

// PopularClubs fetches the popularity ranking shown on the home page.
func (c *Client) PopularClubs(ctx context.Context) ([]model.PopularClub, error) {
	var envelope struct {
		Clubs []model.PopularClub `json:"clubs"`
	}
	if err := c.Get(ctx, "/clubs/popular", &envelope); err != nil {
		return nil, fmt.Errorf("fetching popular clubs: %w", err)
	}
	return envelope.Clubs, nil
}

// ClubAnnouncements fetches the announcements of one club.
func (c *Client) ClubAnnouncements(ctx context.Context, clubID int) ([]model.ClubAnnouncement, error) {
	var announcements []model.ClubAnnouncement
	path := fmt.Sprintf("/clubs/%d/announcements", clubID)
	if err := c.Get(ctx, path, &announcements); err != nil {
		return nil, fmt.Errorf("fetching announcements for club %d: %w", clubID, err)
	}
	return announcements, nil
}

// RequestJoinClub submits a membership request for the current user.
func (c *Client) RequestJoinClub(ctx context.Context, clubID int) error {
	path := fmt.Sprintf("/clubs/%d/request", clubID)
	if err := c.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("requesting to join club %d: %w", clubID, err)
	}
	return nil
}
