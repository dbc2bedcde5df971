package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cems-client/internal/keys"
	"cems-client/internal/model"
)

func TestFeaturedSectionRenders(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 100, 40)

	m, _ = m.Update(LoadedMsg{
		Stats:    &model.DashboardStats{TotalActivities: 3},
		Featured: []model.Activity{{ID: 5, Title: "Spring Fair", Location: "Quad"}},
	})

	view := m.View()
	assert.Contains(t, view, "Featured activities")
	assert.Contains(t, view, "Spring Fair")
}

func TestFeaturedSectionHiddenWhenEmpty(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 100, 40)

	m, _ = m.Update(LoadedMsg{Stats: &model.DashboardStats{TotalActivities: 3}})

	assert.NotContains(t, m.View(), "Featured activities")
}
