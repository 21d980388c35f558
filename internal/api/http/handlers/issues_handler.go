package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-issue-service/internal/api/dto"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
	"github.com/spec-kit/civic-issue-service/internal/service"
	apperrors "github.com/spec-kit/civic-issue-service/pkg/util"
)

// IssuesHandler manages issue lifecycle endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// Create handles POST /api/issues (multipart form, citizen only).
func (h *IssuesHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	input := service.IssueCreateInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Address:     c.FormValue("location"),
		Latitude:    parseCoordinate(c.FormValue("latitude")),
		Longitude:   parseCoordinate(c.FormValue("longitude")),
		Priority:    domain.IssuePriority(c.FormValue("priority")),
	}
	if file, err := c.FormFile("image"); err == nil {
		input.Image = file
	}

	issue, err := h.service.Create(c.Context(), *identity, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(issue)
}

// List handles GET /api/issues (officer and admin).
func (h *IssuesHandler) List(c *fiber.Ctx) error {
	issues, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(issues)
}

// MyIssues handles GET /api/issues/my-issues (citizen only).
func (h *IssuesHandler) MyIssues(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	issues, err := h.service.ListMine(c.Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(issues)
}

// UpdateStatus handles PATCH /api/issues/:id/status (officer and admin).
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request payload")
	}
	if req.Status == "" {
		return apperrors.NewValidationError("Status is required")
	}

	issue, err := h.service.UpdateStatus(c.Context(), *identity, c.Params("id"), domain.IssueStatus(req.Status), req.Comments)
	if err != nil {
		return err
	}
	return c.JSON(issue)
}

// Delete handles DELETE /api/issues/:id (admin only, resolved issues only).
func (h *IssuesHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}

	if err := h.service.Delete(c.Context(), *identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Issue deleted successfully"})
}

func parseCoordinate(val string) *float64 {
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
