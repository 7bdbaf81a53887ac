package service

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/mergington/activities/server/mergington"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notFoundError struct{}

func (e notFoundError) Error() string {
	return "activity was not found"
}

func (e notFoundError) IsNotFound() bool {
	return true
}

type rosterConflict struct{}

func (e rosterConflict) Error() string {
	return "michael@mergington.edu is already signed up for Chess Club"
}

func (e rosterConflict) BadRequestError() []map[string]string {
	return nil
}

type newAndExciting struct{}

func (e newAndExciting) Error() string {
	return ""
}

func TestHandlesErrorsCode(t *testing.T) {
	var errorTests = []struct {
		name string
		err  error
		code int
	}{
		{
			name: "validation",
			err:  mergington.NewInvalidArgumentError("email", "missing required argument"),
			code: 422,
		},
		{
			name: "notFound",
			err:  notFoundError{},
			code: 404,
		},
		{
			name: "rosterConflict",
			err:  rosterConflict{},
			code: 400,
		},
		{
			name: "wrappedNotFound",
			err:  errors.Wrap(notFoundError{}, "checking roster"),
			code: 404,
		},
		{
			name: "unknown",
			err:  newAndExciting{},
			code: 500,
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			encodeError(nil, tt.err, recorder)
			assert.Equal(t, recorder.Code, tt.code)
		})
	}
}

func TestErrorBodyHasDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	encodeError(nil, notFoundError{}, recorder)

	var body struct {
		Detail string `json:"detail"`
	}
	require.Nil(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Contains(t, body.Detail, "not found")
}
