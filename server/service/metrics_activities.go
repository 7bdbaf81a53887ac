package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mergington/activities/server/mergington"
)

func (mw metricsMiddleware) ListActivities(ctx context.Context) ([]*mergington.Activity, error) {
	var (
		activities []*mergington.Activity
		err        error
	)
	defer func(begin time.Time) {
		lvs := []string{"method", "ListActivities", "error", fmt.Sprint(err != nil)}
		mw.requestCount.With(lvs...).Add(1)
		mw.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())
	activities, err = mw.Service.ListActivities(ctx)
	return activities, err
}

func (mw metricsMiddleware) SignUp(ctx context.Context, name, email string) (*mergington.Activity, error) {
	var (
		activity *mergington.Activity
		err      error
	)
	defer func(begin time.Time) {
		lvs := []string{"method", "SignUp", "error", fmt.Sprint(err != nil)}
		mw.requestCount.With(lvs...).Add(1)
		mw.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())
	activity, err = mw.Service.SignUp(ctx, name, email)
	return activity, err
}

func (mw metricsMiddleware) Unregister(ctx context.Context, name, email string) (*mergington.Activity, error) {
	var (
		activity *mergington.Activity
		err      error
	)
	defer func(begin time.Time) {
		lvs := []string{"method", "Unregister", "error", fmt.Sprint(err != nil)}
		mw.requestCount.With(lvs...).Add(1)
		mw.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())
	activity, err = mw.Service.Unregister(ctx, name, email)
	return activity, err
}
