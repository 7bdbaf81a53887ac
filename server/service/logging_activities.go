package service

import (
	"context"
	"time"

	"github.com/mergington/activities/server/mergington"
)

func (mw loggingMiddleware) ListActivities(ctx context.Context) (activities []*mergington.Activity, err error) {
	defer func(begin time.Time) {
		_ = mw.loggerDebug(err).Log(
			"method", "ListActivities",
			"err", err,
			"took", time.Since(begin),
		)
	}(time.Now())

	activities, err = mw.Service.ListActivities(ctx)
	return
}

func (mw loggingMiddleware) SignUp(ctx context.Context, name, email string) (activity *mergington.Activity, err error) {
	defer func(begin time.Time) {
		_ = mw.loggerInfo(err).Log(
			"method", "SignUp",
			"activity", name,
			"email", email,
			"err", err,
			"took", time.Since(begin),
		)
	}(time.Now())

	activity, err = mw.Service.SignUp(ctx, name, email)
	return
}

func (mw loggingMiddleware) Unregister(ctx context.Context, name, email string) (activity *mergington.Activity, err error) {
	defer func(begin time.Time) {
		_ = mw.loggerInfo(err).Log(
			"method", "Unregister",
			"activity", name,
			"email", email,
			"err", err,
			"took", time.Since(begin),
		)
	}(time.Now())

	activity, err = mw.Service.Unregister(ctx, name, email)
	return
}
