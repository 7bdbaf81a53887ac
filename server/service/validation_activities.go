package service

import (
	"context"

	"github.com/mergington/activities/server/mergington"
)

func (mw validationMiddleware) SignUp(ctx context.Context, name, email string) (*mergington.Activity, error) {
	invalid := &mergington.InvalidArgumentError{}
	if name == "" {
		invalid.Append("name", "missing required argument")
	}
	if email == "" {
		invalid.Append("email", "missing required argument")
	}
	if invalid.HasErrors() {
		return nil, invalid
	}
	return mw.Service.SignUp(ctx, name, email)
}

func (mw validationMiddleware) Unregister(ctx context.Context, name, email string) (*mergington.Activity, error) {
	invalid := &mergington.InvalidArgumentError{}
	if name == "" {
		invalid.Append("name", "missing required argument")
	}
	if email == "" {
		invalid.Append("email", "missing required argument")
	}
	if invalid.HasErrors() {
		return nil, invalid
	}
	return mw.Service.Unregister(ctx, name, email)
}
