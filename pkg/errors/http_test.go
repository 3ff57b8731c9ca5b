package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, StatusInternalServerError},
		{"invalid request", NewInvalidRequestError("bad", nil), StatusBadRequest},
		{"business rule", NewBusinessRuleError("no guests", nil), StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("nope", nil), StatusUnauthorized},
		{"conflict", NewConflictError("exists", nil), StatusConflict},
		{"service unavailable", NewServiceUnavailableError("down", nil), StatusServiceUnavailable},
		{"database", NewDatabaseError("boom", errors.New("pq: relation missing")), StatusInternalServerError},
		{"plain error", errors.New("boom"), StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_DoesNotLeakInternals(t *testing.T) {
	dbErr := NewDatabaseError("unable to create submission", errors.New("pq: connection refused"))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(dbErr))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(errors.New("secret detail")))

	ruleErr := NewBusinessRuleError("There should be at least one guest.", nil)
	assert.Equal(t, "There should be at least one guest.", GetHumanReadableMessage(ruleErr))
}

func TestGetDetails(t *testing.T) {
	details := []ValidationErrorResponse{{Field: "email", Message: "Invalid email format"}}
	err := NewInvalidRequestError("Invalid request payload", nil).WithDetails(details)

	assert.Equal(t, details, GetDetails(err))
	assert.Nil(t, GetDetails(errors.New("plain")))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, IsDuplicateKeyError(nil))
	assert.True(t, IsDuplicateKeyError(errors.New(`pq: duplicate key value violates unique constraint "submissions_pkey"`)))
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: submissions.id")))
	assert.False(t, IsDuplicateKeyError(errors.New("connection refused")))
}
