package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WatchBeam/clock"
	kitlog "github.com/go-kit/log"
	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/datastore/inmem"
	"github.com/mergington/activities/server/mergington"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/throttled/throttled/v2/store/memstore"
)

func setupActivitiesTest(t *testing.T) (mergington.Datastore, *httptest.Server) {
	ds, err := inmem.New(config.TestConfig(), clock.NewMockClock())
	require.Nil(t, err)
	require.Nil(t, ds.MigrateData())

	svc := newTestService(ds)

	limitStore, err := memstore.New(0)
	require.Nil(t, err)

	handler := MakeHandler(svc, config.TestConfig(), kitlog.NewNopLogger(), limitStore)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return ds, server
}

func TestGetActivities(t *testing.T) {
	_, server := setupActivitiesTest(t)

	resp, err := http.Get(server.URL + "/activities")
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	// The response is a bare object keyed by activity name, with no envelope
	// around it and no name repeated inside each entry.
	var activities map[string]map[string]interface{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&activities))
	assert.Len(t, activities, 9)

	chess, ok := activities["Chess Club"]
	require.True(t, ok)
	assert.Equal(t, "Learn strategies and compete in chess tournaments", chess["description"])
	assert.Equal(t, "Fridays, 3:30 PM - 5:00 PM", chess["schedule"])
	assert.EqualValues(t, 12, chess["max_participants"])
	assert.NotNil(t, chess["participants"])
	assert.NotContains(t, chess, "name")
	assert.NotContains(t, chess, "created_at")
}

func TestSignUpAndUnregister(t *testing.T) {
	ds, server := setupActivitiesTest(t)

	resp, err := http.Post(server.URL+"/activities/Chess%20Club/signup?email=newstudent@mergington.edu", "application/json", nil)
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var signUpBody struct {
		Message string `json:"message"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&signUpBody))
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", signUpBody.Message)

	activity, err := ds.Activity("Chess Club")
	require.Nil(t, err)
	assert.Contains(t, activity.Participants, "newstudent@mergington.edu")

	req, err := http.NewRequest("DELETE", server.URL+"/activities/Chess%20Club/unregister?email=newstudent@mergington.edu", nil)
	require.Nil(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var unregisterBody struct {
		Message string `json:"message"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&unregisterBody))
	assert.Equal(t, "Unregistered newstudent@mergington.edu from Chess Club", unregisterBody.Message)

	activity, err = ds.Activity("Chess Club")
	require.Nil(t, err)
	assert.NotContains(t, activity.Participants, "newstudent@mergington.edu")
}

func TestSignUpVisibleInListing(t *testing.T) {
	_, server := setupActivitiesTest(t)

	listParticipants := func() []interface{} {
		resp, err := http.Get(server.URL + "/activities")
		require.Nil(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var activities map[string]map[string]interface{}
		require.Nil(t, json.NewDecoder(resp.Body).Decode(&activities))
		basketball, ok := activities["Basketball"]
		require.True(t, ok)
		participants, ok := basketball["participants"].([]interface{})
		require.True(t, ok)
		return participants
	}

	assert.NotContains(t, listParticipants(), "newstudent@mergington.edu")

	resp, err := http.Post(server.URL+"/activities/Basketball/signup?email=newstudent@mergington.edu", "application/json", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, listParticipants(), "newstudent@mergington.edu")
}

func TestSignUpErrors(t *testing.T) {
	_, server := setupActivitiesTest(t)

	// Occupy the roster spot that the duplicate case below collides with.
	resp, err := http.Post(server.URL+"/activities/Chess%20Club/signup?email=michael@mergington.edu", "application/json", nil)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	signUpTests := []struct {
		name   string
		uri    string
		status int
		detail string
	}{
		{
			name:   "unknown activity",
			uri:    "/activities/Underwater%20Basket%20Weaving/signup?email=michael@mergington.edu",
			status: http.StatusNotFound,
			detail: "not found",
		},
		{
			name:   "already signed up",
			uri:    "/activities/Chess%20Club/signup?email=michael@mergington.edu",
			status: http.StatusBadRequest,
			detail: "already signed up",
		},
		{
			name:   "missing email",
			uri:    "/activities/Chess%20Club/signup",
			status: http.StatusUnprocessableEntity,
			detail: "Validation Failed",
		},
	}

	for _, tt := range signUpTests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+tt.uri, "application/json", nil)
			require.Nil(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Detail string `json:"detail"`
			}
			require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body.Detail, tt.detail)
		})
	}
}

func TestUnregisterErrors(t *testing.T) {
	_, server := setupActivitiesTest(t)

	unregisterTests := []struct {
		name   string
		uri    string
		status int
		detail string
	}{
		{
			name:   "unknown activity",
			uri:    "/activities/Underwater%20Basket%20Weaving/unregister?email=michael@mergington.edu",
			status: http.StatusNotFound,
			detail: "not found",
		},
		{
			name:   "not signed up",
			uri:    "/activities/Chess%20Club/unregister?email=ghost@mergington.edu",
			status: http.StatusBadRequest,
			detail: "not signed up",
		},
		{
			name:   "missing email",
			uri:    "/activities/Chess%20Club/unregister",
			status: http.StatusUnprocessableEntity,
			detail: "Validation Failed",
		},
	}

	for _, tt := range unregisterTests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("DELETE", server.URL+tt.uri, nil)
			require.Nil(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.Nil(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body struct {
				Detail string `json:"detail"`
			}
			require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body.Detail, tt.detail)
		})
	}
}

func TestFrontendRedirect(t *testing.T) {
	_, server := setupActivitiesTest(t)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(server.URL + "/")
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/static/index.html", resp.Header.Get("Location"))
}
