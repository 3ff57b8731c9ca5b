package submission

import (
	"strings"

	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/constants"
)

// CreateSubmissionRequest is the public form payload. The access code may arrive as "code" or,
// from older forms, as "password". Counts are pointers so a missing count is told apart from 0.
type CreateSubmissionRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
	Veg      *int   `json:"veg"`
	NonVeg   *int   `json:"nonVeg"`
}

type SubmissionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	Veg       int    `json:"veg"`
	NonVeg    int    `json:"nonVeg"`
	CreatedAt string `json:"createdAt"`
}

type SummaryResponse struct {
	Total       int         `json:"total"`
	TotalPeople int         `json:"totalPeople"`
	VegCount    int         `json:"vegCount"`
	NonVegCount int         `json:"nonVegCount"`
	Cards       []rsvp.Card `json:"cards"`
}

// ========================================
// Mappers
// ========================================

// ToDraft returns the draft to validate plus a field error for each missing count.
func (req *CreateSubmissionRequest) ToDraft() (rsvp.Draft, []rsvp.FieldError) {
	code := req.Code
	if strings.TrimSpace(code) == "" {
		code = req.Password
	}

	draft := rsvp.Draft{Name: req.Name, Email: req.Email, Code: code}

	var missing []rsvp.FieldError
	if req.Veg == nil {
		missing = append(missing, rsvp.FieldError{Field: "veg", Message: "Vegetarian count is required"})
	} else {
		draft.Veg = *req.Veg
	}
	if req.NonVeg == nil {
		missing = append(missing, rsvp.FieldError{Field: "nonVeg", Message: "Non-vegetarian count is required"})
	} else {
		draft.NonVeg = *req.NonVeg
	}

	return rsvp.Normalize(draft), missing
}

func ToSubmissionModel(draft rsvp.Draft) *models.Submission {
	return &models.Submission{
		Name:   draft.Name,
		Email:  draft.Email,
		Code:   draft.Code,
		Veg:    draft.Veg,
		NonVeg: draft.NonVeg,
	}
}

func ToSubmissionResponse(submission *models.Submission) SubmissionResponse {
	if submission == nil {
		return SubmissionResponse{}
	}
	return SubmissionResponse{
		ID:        submission.ID,
		Name:      submission.Name,
		Email:     submission.Email,
		Code:      submission.Code,
		Veg:       submission.Veg,
		NonVeg:    submission.NonVeg,
		CreatedAt: submission.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToRSVPSubmission(submission *models.Submission) rsvp.Submission {
	return rsvp.Submission{
		ID:        submission.ID,
		Name:      submission.Name,
		Email:     submission.Email,
		Code:      submission.Code,
		Veg:       submission.Veg,
		NonVeg:    submission.NonVeg,
		CreatedAt: submission.CreatedAt,
	}
}

func FromRSVPSubmission(s rsvp.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Code:      s.Code,
		Veg:       s.Veg,
		NonVeg:    s.NonVeg,
		CreatedAt: s.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToSummaryResponse(summary rsvp.Summary) SummaryResponse {
	return SummaryResponse{
		Total:       summary.Total,
		TotalPeople: summary.TotalPeople,
		VegCount:    summary.VegCount,
		NonVegCount: summary.NonVegCount,
		Cards:       summary.Cards(),
	}
}
