package session

import (
	"fmt"
	"strconv"

	"cems-client/internal/credential"
)

// Session carries the authenticated user's identity and bearer token.
// It is passed explicitly into the API client and the notification
// transport so neither reads ambient credential state, and tests can
// supply fakes.
type Session struct {
	UserID int
	Token  string
}

// Load restores a session from the system keyring. It returns an error
// when no complete credential pair is stored, in which case the caller
// should route the user through the login flow.
func Load() (*Session, error) {
	token, err := credential.Get(credential.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("no stored session: %w", err)
	}

	rawID, err := credential.Get(credential.KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("no stored session: %w", err)
	}

	userID, err := strconv.Atoi(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored user id %q is not numeric: %w", rawID, err)
	}

	return &Session{UserID: userID, Token: token}, nil
}

// Save persists the session to the system keyring.
func (s *Session) Save() error {
	if err := credential.Set(credential.KeyToken, s.Token); err != nil {
		return err
	}
	return credential.Set(credential.KeyUserID, strconv.Itoa(s.UserID))
}

// Clear removes the stored session, logging the user out.
func Clear() error {
	if err := credential.Delete(credential.KeyToken); err != nil {
		return err
	}
	return credential.Delete(credential.KeyUserID)
}
