package mergington

// Datastore combines all the interfaces implemented by the datastore layer.
type Datastore interface {
	ActivityStore

	// Name returns the name of the datastore implementation.
	Name() string

	// Drop removes all state from the datastore.
	Drop() error

	// MigrateTables prepares the datastore tables for use.
	MigrateTables() error

	// MigrateData populates built-in data, in particular the activity
	// catalog.
	MigrateData() error
}
