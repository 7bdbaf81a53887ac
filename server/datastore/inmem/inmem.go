package inmem

import (
	"os"
	"sync"

	"github.com/WatchBeam/clock"
	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/mergington"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Datastore struct {
	Driver string
	clock  clock.Clock

	mtx        sync.RWMutex
	activities map[string]*mergington.Activity

	config *config.MergingtonConfig
}

func New(config config.MergingtonConfig, c clock.Clock) (*Datastore, error) {
	ds := &Datastore{
		Driver: "inmem",
		clock:  c,
		config: &config,
	}

	if err := ds.MigrateTables(); err != nil {
		return nil, err
	}

	return ds, nil
}

func (d *Datastore) Name() string {
	return "inmem"
}

func (d *Datastore) MigrateTables() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.activities = make(map[string]*mergington.Activity)

	return nil
}

// MigrateData installs the activity catalog, either the built-in one or the
// catalog configured through activities.seed_path. Rosters start empty.
func (d *Datastore) MigrateData() error {
	catalog := builtinCatalog()
	if path := d.config.Activities.SeedPath; path != "" {
		loaded, err := loadCatalog(path)
		if err != nil {
			return err
		}
		catalog = loaded
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	now := d.clock.Now().UTC()
	for _, activity := range catalog {
		activity.CreatedAt = now
		activity.UpdatedAt = now
		d.activities[activity.Name] = activity
	}

	return nil
}

func (d *Datastore) Drop() error {
	return d.MigrateTables()
}

// Initialize seeds sample rosters so a development server starts with
// populated activities.
func (d *Datastore) Initialize() error {
	return d.createDevParticipants()
}

// HealthCheck returns an error if the registry tables are missing, which
// means MigrateTables never ran or Drop was called without a re-migration.
func (d *Datastore) HealthCheck() error {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	if d.activities == nil {
		return errors.New("activity registry not migrated")
	}
	return nil
}

// builtinCatalog returns a fresh copy of the default Mergington High School
// activity catalog.
func builtinCatalog() []*mergington.Activity {
	return []*mergington.Activity{
		{
			Name:            "Basketball",
			Description:     "Learn basketball skills and play friendly matches",
			Schedule:        "Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{},
		},
		{
			Name:            "Tennis Club",
			Description:     "Practice tennis techniques and play singles and doubles matches",
			Schedule:        "Tuesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{},
		},
		{
			Name:            "Art Studio",
			Description:     "Explore drawing, painting, and sculpture in the school studio",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct, and produce the school plays",
			Schedule:        "Mondays and Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{},
		},
		{
			Name:            "Debate Team",
			Description:     "Develop argumentation skills and compete in debate tournaments",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{},
		},
		{
			Name:            "Science Club",
			Description:     "Hands-on experiments and science fair projects",
			Schedule:        "Tuesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{},
		},
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{},
		},
	}
}

// loadCatalog reads an activity catalog from a yaml file. Each entry needs a
// unique name and a positive capacity.
func loadCatalog(path string) ([]*mergington.Activity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read activity catalog")
	}

	var catalog []*mergington.Activity
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, errors.Wrap(err, "unmarshal activity catalog")
	}

	seen := make(map[string]bool)
	for _, activity := range catalog {
		if activity.Name == "" {
			return nil, errors.New("activity catalog entries require a name")
		}
		if seen[activity.Name] {
			return nil, errors.Errorf("duplicate activity %q in catalog", activity.Name)
		}
		seen[activity.Name] = true

		if activity.MaxParticipants <= 0 {
			return nil, errors.Errorf("activity %q requires a positive max_participants", activity.Name)
		}
		if activity.Participants == nil {
			activity.Participants = []string{}
		}
	}

	return catalog, nil
}

// Bootstrap a few participants when using the in-memory database so the
// frontend has rosters to show.
func (d *Datastore) createDevParticipants() error {
	rosters := map[string][]string{
		"Basketball":        {"liam@mergington.edu"},
		"Chess Club":        {"michael@mergington.edu", "daniel@mergington.edu"},
		"Programming Class": {"emma@mergington.edu", "sophia@mergington.edu"},
		"Gym Class":         {"john@mergington.edu", "olivia@mergington.edu"},
	}

	for name, emails := range rosters {
		for _, email := range emails {
			if _, err := d.AddParticipant(name, email); err != nil {
				return err
			}
		}
	}

	return nil
}
