package service

import (
	kitlog "github.com/go-kit/log"

	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/mergington"
)

func newTestService(ds mergington.Datastore) mergington.Service {
	svc, err := NewService(ds, kitlog.NewNopLogger(), config.TestConfig())
	if err != nil {
		panic(err)
	}
	return svc
}
