package handlers

import (
	"strconv"

	"loanlink-partners/internal/core/services"
	"loanlink-partners/internal/pkg/pagination"
	"loanlink-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PreRegistrationHandler handles screening submission endpoints
type PreRegistrationHandler struct {
	preRegService *services.PreRegistrationService
}

// NewPreRegistrationHandler creates a new pre-registration handler
func NewPreRegistrationHandler(preRegService *services.PreRegistrationService) *PreRegistrationHandler {
	return &PreRegistrationHandler{
		preRegService: preRegService,
	}
}

// Create creates a new pre-registration
// @Summary Submit pre-registration
// @Description Submit a partner screening form. Eligibility is evaluated immediately.
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Param body body services.CreatePreRegistrationInput true "Screening data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pre-registrations [post]
func (h *PreRegistrationHandler) Create(c *fiber.Ctx) error {
	var input services.CreatePreRegistrationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.HasBusinessReg == "" {
		return response.BadRequest(c, "Business registration answer is required")
	}
	if input.HasClientBase == "" {
		return response.BadRequest(c, "Client base answer is required")
	}

	preReg, err := h.preRegService.Create(c.Context(), &input)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Pre-registration submitted successfully", fiber.Map{
		"pre_registration": preReg,
	})
}

// List lists pre-registrations
// @Summary List pre-registrations
// @Description List screening submissions (Admin only)
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(pre-approved, rejected)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /pre-registrations [get]
func (h *PreRegistrationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	preRegs, total, err := h.preRegService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Pre-registrations retrieved successfully", fiber.Map{
		"pre_registrations": preRegs,
		"pagination":        pagination.GetMeta(params, total),
	})
}

// GetByID gets a pre-registration by ID
// @Summary Get pre-registration
// @Description Get a specific screening submission (Admin only)
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pre-registration ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pre-registrations/{id} [get]
func (h *PreRegistrationHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pre-registration ID")
	}

	preReg, err := h.preRegService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Pre-registration retrieved successfully", fiber.Map{
		"pre_registration": preReg,
	})
}

// UpdateStatusRequest represents status change request
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus changes a pre-registration status
// @Summary Update pre-registration status
// @Description Change screening status. The approved status cannot be set here; promote instead.
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pre-registration ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pre-registrations/{id}/status [put]
func (h *PreRegistrationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pre-registration ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	preReg, err := h.preRegService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Status updated successfully", fiber.Map{
		"pre_registration": preReg,
	})
}

// Reject rejects a pre-registration
// @Summary Reject pre-registration
// @Description Mark a screening submission as rejected (Admin only)
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pre-registration ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /pre-registrations/{id}/reject [put]
func (h *PreRegistrationHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pre-registration ID")
	}

	preReg, err := h.preRegService.Reject(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Pre-registration rejected successfully", fiber.Map{
		"pre_registration": preReg,
	})
}

// Promote promotes a pre-registration to a partner account
// @Summary Promote pre-registration
// @Description Atomically convert a screening submission into a partner account. The temporary credential is returned exactly once.
// @Tags PreRegistrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pre-registration ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /pre-registrations/{id}/promote [post]
func (h *PreRegistrationHandler) Promote(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid pre-registration ID")
	}

	result, err := h.preRegService.Promote(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	partner := result.Partner.ToResponse()
	partner.TempCredential = result.TemporaryCredential

	return response.Created(c, "Partner created successfully", fiber.Map{
		"partner": partner,
	})
}
