package admin

import (
	"time"

	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/pkg/constants"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
)

func NewSessionController(service SessionService) *router.RESTController {
	return router.NewVersionedRESTController(
		"AdminSessionController",
		"v1",
		"/admin/session",
		func(rs *router.RouterService, c *router.RESTController) {
			loginLimiter := rs.NewRateLimiter(constants.AdminLoginRateLimitRequests, time.Minute)
			requireSession := router.RequireBearer(service.Authenticate)

			rs.AddPostHandler(c, loginLimiter, "", loginHandler(service))
			rs.AddGetHandler(c, nil, "", currentSessionHandler(service), requireSession)
			rs.AddDeleteHandler(c, nil, "", logoutHandler(service), requireSession)
		},
	)
}

func loginHandler(service SessionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req LoginRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind login request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Login(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Session")
	}
}

func currentSessionHandler(service SessionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Current(ctx.Request.Context(), router.BearerToken(ctx))
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Session is active")
	}
}

func logoutHandler(service SessionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		if err := service.Logout(ctx.Request.Context(), router.BearerToken(ctx)); err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(nil, "Logged out")
	}
}
