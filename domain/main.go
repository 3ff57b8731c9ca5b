package domain

import (
	"github.com/akeren/event-rsvp/config"
	"github.com/akeren/event-rsvp/domain/admin"
	"github.com/akeren/event-rsvp/domain/monitoring"
	"github.com/akeren/event-rsvp/domain/pages"
	"github.com/akeren/event-rsvp/domain/submission"
	"github.com/akeren/event-rsvp/internal/rsvp"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	rs := appConfig.RouterService
	registry := rs.MetricsRegisterer()

	var cache monitoring.Cache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
	}
	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, cache).CreateController())

	adminService := admin.NewSessionServiceFactory(appConfig.Logger, appConfig.AdminGate, appConfig.Sessions, registry)
	rs.MountController(adminService.CreateController())

	// A nil *gate.Gate must not become a non-nil interface.
	var codes rsvp.CodeChecker
	if appConfig.SubmitGate != nil {
		codes = appConfig.SubmitGate
	}
	submissions := submission.NewSubmissionServiceFactory(appConfig.DB, appConfig.Logger, codes, registry)
	rs.MountController(submissions.CreateController(adminService.CreateService().Authenticate))

	rsvpConfig := appConfig.Config.RSVP
	pagesController, err := pages.NewPagesControllerFactory(rs, appConfig.Formatter, pages.Settings{
		Event: pages.Event{
			Title:       rsvpConfig.Event.Title,
			Date:        rsvpConfig.Event.Date,
			Venue:       rsvpConfig.Event.Venue,
			Description: rsvpConfig.Event.Description,
		},
		Locale:        rsvpConfig.DisplayLocale,
		SubmitGated:   appConfig.SubmitGate != nil,
		ClientTimeout: rsvpConfig.ClientTimeout,
	}).CreateController()
	if err != nil {
		return err
	}
	rs.MountController(pagesController)

	return nil
}
