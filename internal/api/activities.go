package api

import (
	"context"
	"fmt"

	"cems-client/internal/model"
)

// ListActivities fetches every published activity.
func (c *Client) ListActivities(ctx context.Context) ([]model.Activity, error) {
	var envelope struct {
		Activities []model.Activity `json:"activities"`
	}
	if err := c.Get(ctx, "/all/activities", &envelope); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	return envelope.Activities, nil
}

// FeaturedActivities fetches the activities highlighted on the home
// page.
func (c *Client) FeaturedActivities(ctx context.Context) ([]model.Activity, error) {
	var envelope struct {
		Activities []model.Activity `json:"activities"`
	}
	if err := c.Get(ctx, "/activities/featured", &envelope); err != nil {
		return nil, fmt.Errorf("fetching featured activities: %w", err)
	}
	return envelope.Activities, nil
}

// Activity fetches one activity with its status, club, and
// registrations preloaded.
func (c *Client) Activity(ctx context.Context, id int) (*model.Activity, error) {
	var activity model.Activity
	if err := c.Get(ctx, fmt.Sprintf("/activities/%d", id), &activity); err != nil {
		return nil, fmt.Errorf("fetching activity %d: %w", id, err)
	}
	return &activity, nil
}

// ClubActivities fetches the activities owned by one club.
func (c *Client) ClubActivities(ctx context.Context, clubID int) ([]model.Activity, error) {
	var envelope struct {
		Activities []model.Activity `json:"activities"`
	}
	if err := c.Get(ctx, fmt.Sprintf("/activities/club/%d", clubID), &envelope); err != nil {
		return nil, fmt.Errorf("fetching activities for club %d: %w", clubID, err)
	}
	return envelope.Activities, nil
}

// registerInput is the body for activity registration. StatusID zero
// lets the backend apply its default ("registered").
type registerInput struct {
	UserID     int `json:"user_id"`
	ActivityID int `json:"activity_id"`
	StatusID   int `json:"status_id,omitempty"`
}

// Register signs the given user up for an activity.
func (c *Client) Register(ctx context.Context, userID, activityID int) error {
	in := registerInput{UserID: userID, ActivityID: activityID}
	if err := c.Post(ctx, "/activities/register", in, nil); err != nil {
		return fmt.Errorf("registering user %d for activity %d: %w", userID, activityID, err)
	}
	return nil
}
