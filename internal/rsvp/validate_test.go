package rsvp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCode string

func (c fixedCode) Verify(code string) bool { return string(c) == code }

func validDraft() Draft {
	return Draft{Name: "A", Email: "a@x.com", Code: "correct", Veg: 2, NonVeg: 1}
}

func TestValidator_AcceptsValidDraft(t *testing.T) {
	v := NewValidator(fixedCode("correct"))
	assert.NoError(t, v.Validate(validDraft()))
}

func TestValidator_RequiresTrimmedTextFields(t *testing.T) {
	v := NewValidator(nil)

	err := v.Validate(Draft{Name: "   ", Email: "\t", Code: "", Veg: 1})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("code"))
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "Name is required"},
		{Field: "email", Message: "Email is required"},
		{Field: "code", Message: "Code is required"},
	}, verr.Fields)
}

func TestValidator_RejectsMalformedEmail(t *testing.T) {
	d := validDraft()
	d.Email = "not-an-address"

	err := NewValidator(nil).Validate(d)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "email", Message: "Invalid email address"}}, verr.Fields)
}

func TestValidator_WrongCodeIsAFieldError(t *testing.T) {
	d := validDraft()
	d.Code = "wrong"

	err := NewValidator(fixedCode("correct")).Validate(d)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "code", Message: PasswordIncorrectMessage}}, verr.Fields)
}

func TestValidator_ZeroGuestsIsABusinessRuleError(t *testing.T) {
	d := validDraft()
	d.Veg, d.NonVeg = 0, 0

	err := NewValidator(nil).Validate(d)

	assert.ErrorIs(t, err, ErrNoGuests)
}

func TestValidator_NegativeCountsRejected(t *testing.T) {
	d := validDraft()
	d.Veg = -1

	err := NewValidator(nil).Validate(d)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("veg"))
}

func TestValidator_FieldErrorsWinOverGuestRule(t *testing.T) {
	err := NewValidator(nil).Validate(Draft{})

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.NotErrorIs(t, err, ErrNoGuests)
}

func TestGuestCounter_FloorsAtZeroWithoutCeiling(t *testing.T) {
	var c GuestCounter

	c.Decrement()
	c.Decrement()
	assert.Equal(t, 0, c.Value())

	for i := 0; i < 1000; i++ {
		c.Increment()
	}
	assert.Equal(t, 1000, c.Value())

	c.Decrement()
	assert.Equal(t, 999, c.Value())

	c.Reset()
	assert.Equal(t, 0, c.Value())
}

func TestValidator_OversizedCountsRejected(t *testing.T) {
	d := validDraft()
	d.Veg = math.MaxInt64
	d.NonVeg = MaxGuestsPerMeal + 1

	err := NewValidator(nil).Validate(d)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []FieldError{
		{Field: "veg", Message: "People count cannot exceed 1000"},
		{Field: "nonVeg", Message: "People count cannot exceed 1000"},
	}, verr.Fields)

	d.Veg, d.NonVeg = MaxGuestsPerMeal, MaxGuestsPerMeal
	assert.NoError(t, NewValidator(nil).Validate(d))
}
