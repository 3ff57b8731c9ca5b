package submission

import (
	"time"

	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/constants"
	apperrors "github.com/akeren/event-rsvp/pkg/errors"
)

// NewSubmissionController mounts the public write endpoint and the session-guarded reads.
func NewSubmissionController(service SubmissionService, authenticate router.BearerValidator) *router.RESTController {
	return router.NewVersionedRESTController(
		"SubmissionController",
		"v1",
		"/submissions",
		func(rs *router.RouterService, c *router.RESTController) {
			creationLimiter := rs.NewRateLimiter(constants.SubmissionRateLimitRequests, time.Minute)
			requireSession := router.RequireBearer(authenticate)

			rs.AddPostHandler(c, creationLimiter, "", createSubmissionHandler(service))
			rs.AddGetHandler(c, nil, "", listSubmissionsHandler(service), requireSession)
			rs.AddGetHandler(c, nil, "/summary", summaryHandler(service), requireSession)
		},
	)
}

func createSubmissionHandler(service SubmissionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateSubmissionRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult(invalidSubmissionMessage, validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateSubmission(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "Submission")
	}
}

func listSubmissionsHandler(service SubmissionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		spec, err := rsvp.ParseSortSpec(ctx.Query("sort"), ctx.Query("order"))
		if err != nil {
			return router.BadRequestResult(err.Error(), nil)
		}

		response, err := service.ListSubmissions(ctx.Request.Context(), spec)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Submissions retrieved successfully")
	}
}

func summaryHandler(service SubmissionService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Summary(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.OKResult(response, "Submission summary retrieved successfully")
	}
}
