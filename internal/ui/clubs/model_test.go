package clubs

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/keys"
	"cems-client/internal/model"
)

func TestDetailShowsClubAndAnnouncements(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(DetailLoadedMsg{
		Club: &model.Club{ID: 3, Name: "Robotics", Description: "We build robots"},
		Announcements: []model.ClubAnnouncement{
			{ID: 9, ClubID: 3, Title: "Meetup", Content: "Lab 4, Friday",
				CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
		Activities: []model.Activity{
			{ID: 12, ClubID: 3, Title: "Robot derby",
				DateStart: time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)},
		},
	})
	require.NotNil(t, m.detail)

	view := m.View()
	assert.Contains(t, view, "Robotics")
	assert.Contains(t, view, "Meetup")
	assert.Contains(t, view, "Robot derby")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.detail)
	assert.Nil(t, m.announcements)
	assert.Nil(t, m.upcoming)
}

func TestDetailFetchFailureKeepsList(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 80, 24)
	m.detailLoading = true

	m, _ = m.Update(DetailLoadedMsg{Err: assert.AnError})
	assert.Nil(t, m.detail)
	assert.False(t, m.detailLoading)
	assert.Equal(t, "Failed to load club details", m.status)
}
