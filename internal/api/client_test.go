package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cems-client/internal/session"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, &session.Session{UserID: 7, Token: "test-token"}, nil)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotAccept string

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode(map[string]string{"ok": "1"})
	})

	var out map[string]string
	require.NoError(t, c.Get(context.Background(), "/ping", &out))

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientUnauthorizedBecomesAuthError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Get(context.Background(), "/notifications/7", nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestClientSurfacesBackendErrorBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "activity is full"})
	})

	err := c.Post(context.Background(), "/activities/register", map[string]int{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity is full")
	assert.False(t, IsAuthError(err))
}

func TestClientRetriesOnRateLimit(t *testing.T) {
	var calls int32

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]int{})
	})

	var out []int
	require.NoError(t, c.Get(context.Background(), "/reports", &out))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestListNotificationsParsesWire(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications/7", r.URL.Path)
		w.Write([]byte(`[
			{"ID":2,"UserID":7,"Message":"newest","Type":"registration","IsRead":false,"CreatedAt":"2024-03-01T09:00:00Z"},
			{"ID":1,"UserID":7,"Message":"older","Type":"announcement","IsRead":true,"CreatedAt":"2024-02-28T09:00:00.123456789"}
		]`))
	})

	records, err := c.ListNotifications(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, records[0].ID)
	assert.Equal(t, "newest", records[0].Message)
	assert.False(t, records[0].IsRead)

	// The zone-less over-long fraction still parses to a real time.
	assert.Equal(t, 2024, records[1].CreatedAt.Year())
	assert.True(t, records[1].IsRead)
}

func TestMarkNotificationRead(t *testing.T) {
	var gotMethod, gotPath string

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.MarkNotificationRead(context.Background(), 42))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/notifications/read/42", gotPath)

	require.NoError(t, c.MarkAllNotificationsRead(context.Background(), 7))
	assert.Equal(t, "/notifications/read-all/7", gotPath)
}

func TestLogin(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)

		var in LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ada@example.edu", in.Identifier)

		json.NewEncoder(w).Encode(LoginResponse{
			Message: "ok",
			Token:   "fresh-token",
		})
	})

	resp, err := c.Login(context.Background(), LoginInput{
		Identifier: "ada@example.edu",
		Password:   "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", resp.Token)
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(LoginResponse{Message: "ok"})
	})

	_, err := c.Login(context.Background(), LoginInput{Identifier: "x", Password: "y"})
	require.Error(t, err)
}

func TestRegisterBody(t *testing.T) {
	var got map[string]int

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.Register(context.Background(), 7, 12))
	assert.Equal(t, 7, got["user_id"])
	assert.Equal(t, 12, got["activity_id"])
}

func TestActivityDetailParsesWire(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/12", r.URL.Path)
		w.Write([]byte(`{
			"ID":12,"Title":"Chess night","Location":"Hall B","Capacity":8,
			"Status":{"ID":2,"Name":"ongoing"},
			"Club":{"ID":3,"Name":"Chess Club"},
			"ActivityRegistrations":[{"ID":1,"UserID":7,"ActivityID":12}]
		}`))
	})

	a, err := c.Activity(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "Chess night", a.Title)
	require.NotNil(t, a.Status)
	assert.Equal(t, "ongoing", a.Status.Name)
	require.NotNil(t, a.Club)
	assert.Equal(t, "Chess Club", a.Club.Name)
	assert.Equal(t, 7, a.SpotsLeft())
}

func TestFeaturedActivitiesUnwrapsEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activities/featured", r.URL.Path)
		w.Write([]byte(`{"activities":[{"ID":5,"Title":"Spring Fair"}]}`))
	})

	activities, err := c.FeaturedActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Spring Fair", activities[0].Title)
}

func TestClubDetailAndAnnouncements(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clubs/3":
			w.Write([]byte(`{"ID":3,"Name":"Robotics","Members":[{"ID":1,"UserID":7,"ClubID":3}]}`))
		case "/clubs/3/announcements":
			w.Write([]byte(`[{"ID":9,"ClubID":3,"Title":"Meetup","Content":"Lab 4, Friday","CreatedAt":"2024-03-01T09:00:00Z"}]`))
		case "/activities/club/3":
			w.Write([]byte(`{"activities":[{"ID":12,"ClubID":3,"Title":"Robot derby"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	club, err := c.Club(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Robotics", club.Name)
	assert.Len(t, club.Members, 1)

	anns, err := c.ClubAnnouncements(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, "Meetup", anns[0].Title)
	assert.Equal(t, 2024, anns[0].CreatedAt.Year())

	acts, err := c.ClubActivities(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Robot derby", acts[0].Title)
}

func TestUserUnwrapsDataEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/7", r.URL.Path)
		w.Write([]byte(`{"data":{"id":7,"email":"ada@example.edu","first_name":"Ada","last_name":"Lovelace"}}`))
	})

	u, err := c.User(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.DisplayName())
}
