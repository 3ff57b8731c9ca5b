package submission

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeCreated      = "created"
	outcomeInvalid      = "invalid"
	outcomeUnauthorized = "unauthorized"
	outcomeNoGuests     = "no_guests"
	outcomeError        = "error"
)

type Metrics struct {
	submissions *prometheus.CounterVec
	guests      *prometheus.CounterVec
}

// NewMetrics registers the submission counters on reg. A nil reg keeps them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsvp_submissions_total",
				Help: "RSVP submission attempts by outcome.",
			},
			[]string{"outcome"},
		),
		guests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsvp_guests_total",
				Help: "Guests confirmed through accepted submissions, by meal preference.",
			},
			[]string{"meal"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.submissions, m.guests)
	}
	return m
}

func (m *Metrics) observe(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeGuests(veg, nonVeg int) {
	m.guests.WithLabelValues("veg").Add(float64(veg))
	m.guests.WithLabelValues("non_veg").Add(float64(nonVeg))
}
