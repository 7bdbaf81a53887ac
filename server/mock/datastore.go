package mock

//go:generate mockimpl -o datastore_activities.go "s *ActivityStore" "mergington.ActivityStore"

import "github.com/mergington/activities/server/mergington"

var _ mergington.Datastore = (*Store)(nil)

type Store struct {
	ActivityStore
}

func (m *Store) Drop() error {
	return nil
}
func (m *Store) MigrateTables() error {
	return nil
}
func (m *Store) MigrateData() error {
	return nil
}
func (m *Store) Name() string {
	return "mock"
}
