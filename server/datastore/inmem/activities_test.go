package inmem

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/WatchBeam/clock"
	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/mergington"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatastore(t *testing.T) *Datastore {
	ds, err := New(config.TestConfig(), clock.NewMockClock())
	require.Nil(t, err)
	require.Nil(t, ds.MigrateData())
	return ds
}

func TestMigrateDataSeedsCatalog(t *testing.T) {
	ds := newTestDatastore(t)

	activities, err := ds.ListActivities()
	require.Nil(t, err)
	require.Len(t, activities, 9)

	names := make([]string, 0, len(activities))
	for _, activity := range activities {
		names = append(names, activity.Name)
		assert.NotEmpty(t, activity.Description)
		assert.NotEmpty(t, activity.Schedule)
		assert.True(t, activity.MaxParticipants > 0)
		assert.NotNil(t, activity.Participants)
		assert.Empty(t, activity.Participants)
	}

	assert.Equal(t, []string{
		"Art Studio",
		"Basketball",
		"Chess Club",
		"Debate Team",
		"Drama Club",
		"Gym Class",
		"Programming Class",
		"Science Club",
		"Tennis Club",
	}, names)
}

func TestActivityByName(t *testing.T) {
	ds := newTestDatastore(t)

	activity, err := ds.Activity("Chess Club")
	require.Nil(t, err)
	assert.Equal(t, "Chess Club", activity.Name)

	_, err = ds.Activity("Knitting Circle")
	require.NotNil(t, err)
	assert.True(t, mergington.IsNotFound(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestAddParticipant(t *testing.T) {
	ds := newTestDatastore(t)

	activity, err := ds.AddParticipant("Basketball", "newstudent@mergington.edu")
	require.Nil(t, err)
	assert.Equal(t, []string{"newstudent@mergington.edu"}, activity.Participants)

	activity, err = ds.AddParticipant("Basketball", "secondstudent@mergington.edu")
	require.Nil(t, err)
	assert.Equal(t,
		[]string{"newstudent@mergington.edu", "secondstudent@mergington.edu"},
		activity.Participants)
}

func TestAddParticipantUnknownActivity(t *testing.T) {
	ds := newTestDatastore(t)

	_, err := ds.AddParticipant("Knitting Circle", "newstudent@mergington.edu")
	require.NotNil(t, err)
	assert.True(t, mergington.IsNotFound(err))

	// A failed signup leaves the registry untouched.
	activities, err := ds.ListActivities()
	require.Nil(t, err)
	for _, activity := range activities {
		assert.Empty(t, activity.Participants)
	}
}

func TestAddParticipantTwice(t *testing.T) {
	ds := newTestDatastore(t)

	_, err := ds.AddParticipant("Basketball", "newstudent@mergington.edu")
	require.Nil(t, err)

	_, err = ds.AddParticipant("Basketball", "newstudent@mergington.edu")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "already signed up")

	activity, err := ds.Activity("Basketball")
	require.Nil(t, err)
	assert.Equal(t, []string{"newstudent@mergington.edu"}, activity.Participants)
}

func TestAddParticipantIgnoresCapacity(t *testing.T) {
	ds, err := New(config.TestConfig(), clock.NewMockClock())
	require.Nil(t, err)
	require.Nil(t, ds.MigrateData())

	activity, err := ds.Activity("Tennis Club")
	require.Nil(t, err)

	// Signups past max_participants still succeed. Capacity is advertised to
	// clients but not checked on mutation.
	for i := 0; i < activity.MaxParticipants+2; i++ {
		email := fmt.Sprintf("student%d@mergington.edu", i)
		_, err = ds.AddParticipant("Tennis Club", email)
		require.Nil(t, err)
	}

	activity, err = ds.Activity("Tennis Club")
	require.Nil(t, err)
	assert.Len(t, activity.Participants, activity.MaxParticipants+2)
}

func TestRemoveParticipant(t *testing.T) {
	ds := newTestDatastore(t)

	emails := []string{
		"first@mergington.edu",
		"second@mergington.edu",
		"third@mergington.edu",
	}
	for _, email := range emails {
		_, err := ds.AddParticipant("Drama Club", email)
		require.Nil(t, err)
	}

	activity, err := ds.RemoveParticipant("Drama Club", "second@mergington.edu")
	require.Nil(t, err)
	assert.Equal(t,
		[]string{"first@mergington.edu", "third@mergington.edu"},
		activity.Participants)
}

func TestRemoveParticipantErrors(t *testing.T) {
	ds := newTestDatastore(t)

	_, err := ds.RemoveParticipant("Knitting Circle", "student@mergington.edu")
	require.NotNil(t, err)
	assert.True(t, mergington.IsNotFound(err))

	_, err = ds.RemoveParticipant("Drama Club", "student@mergington.edu")
	require.NotNil(t, err)
	assert.False(t, mergington.IsNotFound(err))
	assert.Contains(t, err.Error(), "not signed up")
}

func TestSignUpUnregisterRoundTrip(t *testing.T) {
	ds := newTestDatastore(t)

	_, err := ds.AddParticipant("Science Club", "resident@mergington.edu")
	require.Nil(t, err)

	before, err := ds.Activity("Science Club")
	require.Nil(t, err)

	_, err = ds.AddParticipant("Science Club", "visitor@mergington.edu")
	require.Nil(t, err)
	_, err = ds.RemoveParticipant("Science Club", "visitor@mergington.edu")
	require.Nil(t, err)

	after, err := ds.Activity("Science Club")
	require.Nil(t, err)
	assert.Equal(t, before.Participants, after.Participants)
}

func TestListActivitiesCopiesRosters(t *testing.T) {
	ds := newTestDatastore(t)

	_, err := ds.AddParticipant("Gym Class", "john@mergington.edu")
	require.Nil(t, err)

	activities, err := ds.ListActivities()
	require.Nil(t, err)
	for _, activity := range activities {
		if activity.Name == "Gym Class" {
			activity.Participants[0] = "mallory@mergington.edu"
		}
	}

	activity, err := ds.Activity("Gym Class")
	require.Nil(t, err)
	assert.Equal(t, []string{"john@mergington.edu"}, activity.Participants)
}

func TestMutationUpdatesTimestamp(t *testing.T) {
	c := clock.NewMockClock()
	ds, err := New(config.TestConfig(), c)
	require.Nil(t, err)
	require.Nil(t, ds.MigrateData())

	before, err := ds.Activity("Basketball")
	require.Nil(t, err)

	c.AddTime(1 * time.Hour)
	after, err := ds.AddParticipant("Basketball", "newstudent@mergington.edu")
	require.Nil(t, err)

	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestDrop(t *testing.T) {
	ds := newTestDatastore(t)

	require.Nil(t, ds.Drop())

	activities, err := ds.ListActivities()
	require.Nil(t, err)
	assert.Empty(t, activities)
	require.Nil(t, ds.HealthCheck())
}

func TestInitializeSeedsDevRosters(t *testing.T) {
	ds := newTestDatastore(t)
	require.Nil(t, ds.Initialize())

	activity, err := ds.Activity("Chess Club")
	require.Nil(t, err)
	assert.Contains(t, activity.Participants, "michael@mergington.edu")
	assert.Contains(t, activity.Participants, "daniel@mergington.edu")
}

func TestMigrateDataFromSeedFile(t *testing.T) {
	seed := `
- name: Robotics Lab
  description: Build and program robots
  schedule: Mondays, 3:30 PM - 5:00 PM
  max_participants: 8
- name: Choir
  description: Sing in the school choir
  schedule: Thursdays, 4:00 PM - 5:00 PM
  max_participants: 25
`
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.Nil(t, os.WriteFile(path, []byte(seed), 0o644))

	cfg := config.TestConfig()
	cfg.Activities.SeedPath = path

	ds, err := New(cfg, clock.NewMockClock())
	require.Nil(t, err)
	require.Nil(t, ds.MigrateData())

	activities, err := ds.ListActivities()
	require.Nil(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Choir", activities[0].Name)
	assert.Equal(t, "Robotics Lab", activities[1].Name)
	assert.NotNil(t, activities[0].Participants)
}

func TestMigrateDataRejectsBadSeedFile(t *testing.T) {
	cases := []struct {
		name string
		seed string
	}{
		{
			name: "missing name",
			seed: "- description: no name here\n  max_participants: 5\n",
		},
		{
			name: "duplicate name",
			seed: "- name: Choir\n  max_participants: 5\n- name: Choir\n  max_participants: 5\n",
		},
		{
			name: "nonpositive capacity",
			seed: "- name: Choir\n  max_participants: 0\n",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yml")
			require.Nil(t, os.WriteFile(path, []byte(tt.seed), 0o644))

			cfg := config.TestConfig()
			cfg.Activities.SeedPath = path

			ds, err := New(cfg, clock.NewMockClock())
			require.Nil(t, err)
			require.NotNil(t, ds.MigrateData())
		})
	}
}
