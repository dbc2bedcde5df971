package login

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"cems-client/internal/api"
)

func TestFailureMessages(t *testing.T) {
	m := New(nil, 80, 24)

	got, _ := m.Update(failedMsg{err: &api.AuthError{Message: "expired"}})
	assert.Equal(t, "Invalid credentials", got.errText)

	got, _ = m.Update(failedMsg{err: errors.New("connection refused")})
	assert.Equal(t, "Login failed, check the server address", got.errText)

	// A keyring failure is a local problem, not a network one.
	got, _ = m.Update(storeFailedMsg{err: errors.New("keyring locked")})
	assert.Contains(t, got.errText, "keyring")
	assert.False(t, got.busy, "the form is usable again after a failure")
}
