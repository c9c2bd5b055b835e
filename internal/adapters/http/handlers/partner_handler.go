package handlers

import (
	"strconv"

	"loanlink-partners/internal/core/services"
	"loanlink-partners/internal/pkg/pagination"
	"loanlink-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler handles partner account endpoints
type PartnerHandler struct {
	partnerService *services.PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// Register creates a partner account directly
// @Summary Register partner
// @Description Create a partner account without going through screening (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RegisterPartnerInput true "Partner data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /partners [post]
func (h *PartnerHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterPartnerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if input.TaxID == "" {
		return response.BadRequest(c, "Tax ID is required")
	}
	if input.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if input.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	partner, err := h.partnerService.Register(c.Context(), &input)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Partner registered successfully", fiber.Map{
		"partner": partner.ToResponse(),
	})
}

// List lists partners
// @Summary List partners
// @Description List partner accounts (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	partners, total, err := h.partnerService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	result := make([]interface{}, 0, len(partners))
	for _, p := range partners {
		result = append(result, p.ToResponse())
	}

	return response.Success(c, "Partners retrieved successfully", fiber.Map{
		"partners":   result,
		"pagination": pagination.GetMeta(params, total),
	})
}

// GetByID gets a partner by ID
// @Summary Get partner
// @Description Get a specific partner account (Admin only)
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partners/{id} [get]
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	partner, err := h.partnerService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Partner retrieved successfully", fiber.Map{
		"partner": partner.ToResponse(),
	})
}

// GetProfile gets the authenticated partner's own account
// @Summary Get my profile
// @Description Get the authenticated partner's account
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /partners/me [get]
func (h *PartnerHandler) GetProfile(c *fiber.Ctx) error {
	actorID, ok := c.Locals("actorID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	partner, err := h.partnerService.GetByID(c.Context(), actorID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"partner": partner.ToResponse(),
	})
}

// RotateCredential issues a fresh temporary credential
// @Summary Rotate temporary credential
// @Description Replace a partner's password with a new temporary credential (Admin only). The plaintext is returned exactly once.
// @Tags Partners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Partner ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /partners/{id}/rotate-credential [post]
func (h *PartnerHandler) RotateCredential(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid partner ID")
	}

	partner, credential, err := h.partnerService.RotateCredential(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	resp := partner.ToResponse()
	resp.TempCredential = credential

	return response.Success(c, "Credential rotated successfully", fiber.Map{
		"partner": resp,
	})
}
