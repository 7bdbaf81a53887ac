package service

import (
	"context"
	"net/http"
)

func decodeListActivitiesRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	return listActivitiesRequest{}, nil
}

func decodeSignUpRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	name, err := nameFromRequest(r, "name")
	if err != nil {
		return nil, err
	}
	return signUpRequest{
		Name:  name,
		Email: r.URL.Query().Get("email"),
	}, nil
}

func decodeUnregisterRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	name, err := nameFromRequest(r, "name")
	if err != nil {
		return nil, err
	}
	return unregisterRequest{
		Name:  name,
		Email: r.URL.Query().Get("email"),
	}, nil
}
