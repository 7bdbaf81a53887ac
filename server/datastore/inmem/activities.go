package inmem

import (
	"sort"

	"github.com/mergington/activities/server/mergington"
)

func (d *Datastore) ListActivities() ([]*mergington.Activity, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	activities := make([]*mergington.Activity, 0, len(d.activities))
	for _, activity := range d.activities {
		activities = append(activities, copyActivity(activity))
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Name < activities[j].Name
	})

	return activities, nil
}

func (d *Datastore) Activity(name string) (*mergington.Activity, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	activity, ok := d.activities[name]
	if !ok {
		return nil, notFound("Activity").WithName(name)
	}

	return copyActivity(activity), nil
}

func (d *Datastore) AddParticipant(name, email string) (*mergington.Activity, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	activity, ok := d.activities[name]
	if !ok {
		return nil, notFound("Activity").WithName(name)
	}

	if activity.HasParticipant(email) {
		return nil, alreadySignedUp(email, name)
	}

	activity.Participants = append(activity.Participants, email)
	activity.UpdatedAt = d.clock.Now().UTC()

	return copyActivity(activity), nil
}

func (d *Datastore) RemoveParticipant(name, email string) (*mergington.Activity, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	activity, ok := d.activities[name]
	if !ok {
		return nil, notFound("Activity").WithName(name)
	}

	found := false
	participants := make([]string, 0, len(activity.Participants))
	for _, participant := range activity.Participants {
		if participant == email {
			found = true
			continue
		}
		participants = append(participants, participant)
	}
	if !found {
		return nil, notSignedUp(email, name)
	}

	activity.Participants = participants
	activity.UpdatedAt = d.clock.Now().UTC()

	return copyActivity(activity), nil
}

// copyActivity returns a copy that does not alias the stored roster slice, so
// callers can hold results without racing later mutations.
func copyActivity(activity *mergington.Activity) *mergington.Activity {
	dup := *activity
	dup.Participants = make([]string, len(activity.Participants))
	copy(dup.Participants, activity.Participants)
	return &dup
}
