// Package rsvp holds the rules shared by the RSVP form, the write endpoint and the admin view:
// draft validation, guest counters, KPI aggregation, sorting and paging.
package rsvp

import "time"

// Submission is one guest's RSVP as stored and as returned by the read endpoint.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Veg       int       `json:"veg"`
	NonVeg    int       `json:"nonVeg"`
	CreatedAt time.Time `json:"createdAt"`
}

// People is the number of guests the submission accounts for.
func (s Submission) People() int {
	return s.Veg + s.NonVeg
}

// MaxGuestsPerMeal bounds each counter on a single submission so KPI sums cannot overflow.
const MaxGuestsPerMeal = 1000

// Draft is what a guest fills in. It never carries a timestamp; the server assigns CreatedAt.
type Draft struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Code   string `json:"code" validate:"required"`
	Veg    int    `json:"veg" validate:"gte=0,lte=1000"`
	NonVeg int    `json:"nonVeg" validate:"gte=0,lte=1000"`
}
