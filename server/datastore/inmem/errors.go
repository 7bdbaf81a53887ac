package inmem

import "fmt"

type notFoundError struct {
	Name         string
	ResourceType string
}

func notFound(kind string) *notFoundError {
	return &notFoundError{
		ResourceType: kind,
	}
}

func (e *notFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s was not found in the datastore", e.ResourceType, e.Name)
	}
	return fmt.Sprintf("%s was not found in the datastore", e.ResourceType)
}

func (e *notFoundError) WithName(name string) error {
	e.Name = name
	return e
}

func (e *notFoundError) IsNotFound() bool {
	return true
}

type alreadySignedUpError struct {
	Email    string
	Activity string
}

func alreadySignedUp(email, activity string) error {
	return &alreadySignedUpError{
		Email:    email,
		Activity: activity,
	}
}

func (e *alreadySignedUpError) Error() string {
	return fmt.Sprintf("%s is already signed up for %s", e.Email, e.Activity)
}

// BadRequestError implements the interface the transport uses to map roster
// conflicts to a 400 response.
func (e *alreadySignedUpError) BadRequestError() []map[string]string {
	return nil
}

type notSignedUpError struct {
	Email    string
	Activity string
}

func notSignedUp(email, activity string) error {
	return &notSignedUpError{
		Email:    email,
		Activity: activity,
	}
}

func (e *notSignedUpError) Error() string {
	return fmt.Sprintf("%s is not signed up for %s", e.Email, e.Activity)
}

// BadRequestError implements the interface the transport uses to map roster
// conflicts to a 400 response.
func (e *notSignedUpError) BadRequestError() []map[string]string {
	return nil
}
