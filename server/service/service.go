// Package service holds the implementation of the mergington service
// interface and HTTP endpoints for the API
package service

import (
	kitlog "github.com/go-kit/log"

	"github.com/mergington/activities/server/config"
	"github.com/mergington/activities/server/mergington"
)

// Service is the struct implementing mergington.Service. Create a new one
// with NewService.
type Service struct {
	ds     mergington.Datastore
	logger kitlog.Logger
	config config.MergingtonConfig
}

// NewService creates a new service from the config struct
func NewService(ds mergington.Datastore, logger kitlog.Logger, config config.MergingtonConfig) (mergington.Service, error) {
	var svc mergington.Service
	svc = &Service{
		ds:     ds,
		logger: logger,
		config: config,
	}
	svc = validationMiddleware{svc}
	return svc, nil
}

type validationMiddleware struct {
	mergington.Service
}
