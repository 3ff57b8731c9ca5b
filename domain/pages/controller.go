package pages

import (
	"time"

	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/constants"
)

// Event is the copy shown at the top of the RSVP page.
type Event struct {
	Title       string
	Date        string
	Venue       string
	Description string
}

type Settings struct {
	Event  Event
	Locale string
	// SubmitGated switches the code field to a password input.
	SubmitGated bool
	// ClientTimeout bounds every browser request.
	ClientTimeout time.Duration
}

type counterField struct {
	Field string
	Label string
}

type columnHeader struct {
	Key   rsvp.Column
	Label string
}

type indexPage struct {
	Title           string
	Locale          string
	Event           Event
	SubmitURL       string
	SubmitGated     bool
	CodeLabel       string
	Counters        []counterField
	NoGuestsMessage string
	FieldMessages   fieldMessages
	TimeoutMillis   int64
}

// fieldMessages are the inline messages the browser shows before it sends anything.
type fieldMessages struct {
	NameRequired  string
	EmailRequired string
	EmailInvalid  string
	CodeRequired  string
}

type adminPage struct {
	Title          string
	Locale         string
	SessionURL     string
	SubmissionsURL string
	PageSize       int
	Cards          []rsvp.Card
	Columns        []columnHeader
	TimeoutMillis  int64
}

const (
	submissionsURL = "/v1/submissions"
	sessionURL     = "/v1/admin/session"
)

var adminColumns = []columnHeader{
	{Key: rsvp.ColumnCreatedAt, Label: "Submitted"},
	{Key: rsvp.ColumnName, Label: "Name"},
	{Key: rsvp.ColumnEmail, Label: "Email"},
	{Key: rsvp.ColumnCode, Label: "Code"},
	{Key: rsvp.ColumnVeg, Label: "Veg"},
	{Key: rsvp.ColumnNonVeg, Label: "Non-Veg"},
}

// NewPagesController serves the RSVP page at / and the admin shell at /admin. Both pages talk to
// the JSON API from the browser; nothing about submissions is rendered on the server.
func NewPagesController(settings Settings) *router.RESTController {
	if settings.ClientTimeout <= 0 {
		settings.ClientTimeout = constants.DefaultClientTimeout
	}

	return router.NewRESTController(
		"PagesController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			c.RateLimitWith(rs, rs.NewRateLimiter(constants.PageRateLimitRequests, time.Minute))
			rs.AddPageHandler(c, nil, "", indexHandler(settings))
			rs.AddPageHandler(c, nil, "admin", adminHandler(settings))
		},
	)
}

func indexHandler(settings Settings) router.PageHandlerFunction {
	codeLabel := "Access code"
	if settings.SubmitGated {
		codeLabel = "Password"
	}

	page := indexPage{
		Title:       settings.Event.Title,
		Locale:      settings.Locale,
		Event:       settings.Event,
		SubmitURL:   submissionsURL,
		SubmitGated: settings.SubmitGated,
		CodeLabel:   codeLabel,
		Counters: []counterField{
			{Field: "veg", Label: "Vegetarian guests"},
			{Field: "nonVeg", Label: "Non-vegetarian guests"},
		},
		NoGuestsMessage: rsvp.NoGuestsMessage,
		FieldMessages: fieldMessages{
			NameRequired:  rsvp.NameRequiredMessage,
			EmailRequired: rsvp.EmailRequiredMessage,
			EmailInvalid:  rsvp.EmailInvalidMessage,
			CodeRequired:  rsvp.CodeRequiredMessage,
		},
		TimeoutMillis: settings.ClientTimeout.Milliseconds(),
	}

	return func(*router.RequestContext) *router.PageResult {
		return &router.PageResult{Template: indexTemplate, Data: page}
	}
}

func adminHandler(settings Settings) router.PageHandlerFunction {
	page := adminPage{
		Title:          settings.Event.Title + " | Admin",
		Locale:         settings.Locale,
		SessionURL:     sessionURL,
		SubmissionsURL: submissionsURL,
		PageSize:       rsvp.DefaultPageSize,
		Cards:          rsvp.Summary{}.Cards(),
		Columns:        adminColumns,
		TimeoutMillis:  settings.ClientTimeout.Milliseconds(),
	}

	return func(c *router.RequestContext) *router.PageResult {
		c.Header("Cache-Control", "no-store")
		return &router.PageResult{Template: adminTemplate, Data: page}
	}
}
