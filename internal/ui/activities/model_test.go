package activities

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/keys"
	"cems-client/internal/model"
)

func TestDetailOpensAndCloses(t *testing.T) {
	m := New(nil, nil, keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(DetailLoadedMsg{Activity: &model.Activity{
		ID:       12,
		Title:    "Chess night",
		Location: "Hall B",
		Capacity: 8,
	}})
	require.NotNil(t, m.detail)

	view := m.View()
	assert.Contains(t, view, "Chess night")
	assert.Contains(t, view, "Hall B")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.detail)
}

func TestDetailFetchFailureKeepsList(t *testing.T) {
	m := New(nil, nil, keys.DefaultKeyMap(), 80, 24)
	m.detailLoading = true

	m, _ = m.Update(DetailLoadedMsg{Err: assert.AnError})
	assert.Nil(t, m.detail)
	assert.False(t, m.detailLoading)
	assert.Equal(t, "Failed to load activity details", m.status)
}
