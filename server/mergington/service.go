// Package mergington holds the domain entities, service interfaces and
// datastore interfaces for the Mergington High School activities server.
package mergington

// Service is the composite interface comprising all service methods exposed
// by the activities server.
type Service interface {
	ActivityService
}
