package service

import (
	"context"
	"testing"

	"github.com/mergington/activities/server/mergington"
	"github.com/mergington/activities/server/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActivities(t *testing.T) {
	ds := new(mock.Store)
	svc := newTestService(ds)

	ds.ListActivitiesFunc = func() ([]*mergington.Activity, error) {
		return []*mergington.Activity{
			{Name: "Chess Club"},
			{Name: "Programming Class"},
		}, nil
	}

	activities, err := svc.ListActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.True(t, ds.ListActivitiesFuncInvoked)
}

func TestSignUp(t *testing.T) {
	ds := new(mock.Store)
	svc := newTestService(ds)

	ds.AddParticipantFunc = func(name string, email string) (*mergington.Activity, error) {
		assert.Equal(t, "Chess Club", name)
		assert.Equal(t, "michael@mergington.edu", email)
		return &mergington.Activity{
			Name:         name,
			Participants: []string{email},
		}, nil
	}

	activity, err := svc.SignUp(context.Background(), "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.True(t, ds.AddParticipantFuncInvoked)
	assert.Contains(t, activity.Participants, "michael@mergington.edu")
}

func TestSignUpValidatesArguments(t *testing.T) {
	ds := new(mock.Store)
	svc := newTestService(ds)

	var signUpTests = []struct {
		name  string
		email string
	}{
		{name: "", email: "michael@mergington.edu"},
		{name: "Chess Club", email: ""},
		{name: "", email: ""},
	}

	for _, tt := range signUpTests {
		_, err := svc.SignUp(context.Background(), tt.name, tt.email)
		require.Error(t, err)

		var invalid *mergington.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.True(t, invalid.HasErrors())
	}

	assert.False(t, ds.AddParticipantFuncInvoked)
}

func TestUnregister(t *testing.T) {
	ds := new(mock.Store)
	svc := newTestService(ds)

	ds.RemoveParticipantFunc = func(name string, email string) (*mergington.Activity, error) {
		assert.Equal(t, "Gym Class", name)
		assert.Equal(t, "john@mergington.edu", email)
		return &mergington.Activity{Name: name}, nil
	}

	activity, err := svc.Unregister(context.Background(), "Gym Class", "john@mergington.edu")
	require.NoError(t, err)
	assert.True(t, ds.RemoveParticipantFuncInvoked)
	assert.NotContains(t, activity.Participants, "john@mergington.edu")
}

func TestUnregisterValidatesArguments(t *testing.T) {
	ds := new(mock.Store)
	svc := newTestService(ds)

	_, err := svc.Unregister(context.Background(), "Gym Class", "")
	require.Error(t, err)

	var invalid *mergington.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, ds.RemoveParticipantFuncInvoked)
}
