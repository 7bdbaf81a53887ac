package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-kit/kit/endpoint"

	"github.com/mergington/activities/server/mergington"
)

////////////////////////////////////////////////////////////////////////////////
// List Activities
////////////////////////////////////////////////////////////////////////////////

type listActivitiesRequest struct{}

type listActivitiesResponse struct {
	Activities map[string]*mergington.Activity `json:"-"`
	Err        error                           `json:"error,omitempty"`
}

func (r listActivitiesResponse) error() error { return r.Err }

// MarshalJSON flattens the response into a bare object keyed by activity
// name, which is the shape the web ui consumes.
func (r listActivitiesResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Activities)
}

func makeListActivitiesEndpoint(svc mergington.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		activities, err := svc.ListActivities(ctx)
		if err != nil {
			return listActivitiesResponse{Err: err}, nil
		}

		byName := make(map[string]*mergington.Activity, len(activities))
		for _, activity := range activities {
			byName[activity.Name] = activity
		}
		return listActivitiesResponse{Activities: byName}, nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// Sign Up
////////////////////////////////////////////////////////////////////////////////

type signUpRequest struct {
	Name  string
	Email string
}

type signUpResponse struct {
	Message string `json:"message,omitempty"`
	Err     error  `json:"error,omitempty"`
}

func (r signUpResponse) error() error { return r.Err }

func makeSignUpEndpoint(svc mergington.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(signUpRequest)
		activity, err := svc.SignUp(ctx, req.Name, req.Email)
		if err != nil {
			return signUpResponse{Err: err}, nil
		}
		return signUpResponse{
			Message: fmt.Sprintf("Signed up %s for %s", req.Email, activity.Name),
		}, nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// Unregister
////////////////////////////////////////////////////////////////////////////////

type unregisterRequest struct {
	Name  string
	Email string
}

type unregisterResponse struct {
	Message string `json:"message,omitempty"`
	Err     error  `json:"error,omitempty"`
}

func (r unregisterResponse) error() error { return r.Err }

func makeUnregisterEndpoint(svc mergington.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(unregisterRequest)
		activity, err := svc.Unregister(ctx, req.Name, req.Email)
		if err != nil {
			return unregisterResponse{Err: err}, nil
		}
		return unregisterResponse{
			Message: fmt.Sprintf("Unregistered %s from %s", req.Email, activity.Name),
		}, nil
	}
}
