package rsvp

// Summary is the derived KPI block shown above the admin table. It is never persisted.
type Summary struct {
	Total       int `json:"total"`
	TotalPeople int `json:"totalPeople"`
	VegCount    int `json:"vegCount"`
	NonVegCount int `json:"nonVegCount"`
}

// Summarize recomputes the KPIs from the full result set in a single pass.
func Summarize(rows []Submission) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		s.VegCount += r.Veg
		s.NonVegCount += r.NonVeg
	}
	s.TotalPeople = s.VegCount + s.NonVegCount
	return s
}

type Card struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Cards lays the summary out in dashboard order.
func (s Summary) Cards() []Card {
	return []Card{
		{Label: "Total Submissions", Value: s.Total},
		{Label: "Total People", Value: s.TotalPeople},
		{Label: "Veg Count", Value: s.VegCount},
		{Label: "Non-Veg Count", Value: s.NonVegCount},
	}
}
