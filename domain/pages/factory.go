package pages

import (
	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/rsvp"
)

type PagesControllerFactory interface {
	CreateController() (*router.RESTController, error)
}

type DefaultPagesControllerFactory struct {
	rs        *router.RouterService
	formatter *rsvp.Formatter
	settings  Settings
}

func NewPagesControllerFactory(rs *router.RouterService, formatter *rsvp.Formatter, settings Settings) *DefaultPagesControllerFactory {
	return &DefaultPagesControllerFactory{rs: rs, formatter: formatter, settings: settings}
}

// CreateController installs the page templates on the router before returning the controller.
func (f *DefaultPagesControllerFactory) CreateController() (*router.RESTController, error) {
	templates, err := ParseTemplates(f.formatter)
	if err != nil {
		return nil, err
	}
	f.rs.SetHTMLTemplate(templates)

	return NewPagesController(f.settings), nil
}
