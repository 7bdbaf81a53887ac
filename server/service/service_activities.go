package service

import (
	"context"

	"github.com/mergington/activities/server/mergington"
)

func (svc *Service) ListActivities(ctx context.Context) ([]*mergington.Activity, error) {
	return svc.ds.ListActivities()
}

func (svc *Service) SignUp(ctx context.Context, name, email string) (*mergington.Activity, error) {
	return svc.ds.AddParticipant(name, email)
}

func (svc *Service) Unregister(ctx context.Context, name, email string) (*mergington.Activity, error) {
	return svc.ds.RemoveParticipant(name, email)
}
