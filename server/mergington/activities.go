package mergington

import (
	"context"
)

// Activity is a single extracurricular offering students can sign up for.
// The registry keys activities by name, so Name is carried on the struct for
// lookups and messages but never serialized into API responses.
type Activity struct {
	UpdateCreateTimestamps `json:"-" yaml:"-"`

	Name            string   `json:"-" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// HasParticipant reports whether email is already on the activity roster.
func (a *Activity) HasParticipant(email string) bool {
	for _, participant := range a.Participants {
		if participant == email {
			return true
		}
	}
	return false
}

// ActivityStore is the datastore interface for the activity registry.
type ActivityStore interface {
	// ListActivities returns all activities in the registry, sorted by name.
	ListActivities() ([]*Activity, error)
	// Activity retrieves the activity matching the given name.
	Activity(name string) (*Activity, error)
	// AddParticipant appends email to the named activity's roster. The email
	// must not already be on the roster.
	AddParticipant(name, email string) (*Activity, error)
	// RemoveParticipant removes email from the named activity's roster. The
	// email must currently be on the roster.
	RemoveParticipant(name, email string) (*Activity, error)
}

// ActivityService is the service interface for interacting with the activity
// registry.
type ActivityService interface {
	ListActivities(ctx context.Context) ([]*Activity, error)
	SignUp(ctx context.Context, name, email string) (*Activity, error)
	Unregister(ctx context.Context, name, email string) (*Activity, error)
}
