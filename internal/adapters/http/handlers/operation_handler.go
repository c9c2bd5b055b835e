package handlers

import (
	"strconv"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/core/services"
	"loanlink-partners/internal/pkg/jwt"
	"loanlink-partners/internal/pkg/pagination"
	"loanlink-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OperationHandler handles loan-referral case endpoints
type OperationHandler struct {
	operationService *services.OperationService
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(operationService *services.OperationService) *OperationHandler {
	return &OperationHandler{
		operationService: operationService,
	}
}

func actorFromLocals(c *fiber.Ctx) (uint, string) {
	actorID, _ := c.Locals("actorID").(uint)
	role, _ := c.Locals("role").(string)
	return actorID, role
}

func toOperationResponses(ops []*models.Operation) []interface{} {
	result := make([]interface{}, 0, len(ops))
	for _, op := range ops {
		result = append(result, op.ToResponse())
	}
	return result
}

// Create creates a new operation
// @Summary Create operation
// @Description Create a loan-referral case for the authenticated partner
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OperationFields true "Case data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /operations [post]
func (h *OperationHandler) Create(c *fiber.Ctx) error {
	var fields services.OperationFields
	if err := c.BodyParser(&fields); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, role := actorFromLocals(c)
	partnerID := actorID

	// Admins create on behalf of a partner
	if role == jwt.RoleAdmin {
		id, err := strconv.ParseUint(c.Query("partner_id"), 10, 32)
		if err != nil || id == 0 {
			return response.BadRequest(c, "Partner ID is required")
		}
		partnerID = uint(id)
	}

	op, err := h.operationService.Create(c.Context(), partnerID, &fields)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Operation created successfully", fiber.Map{
		"operation": op.ToResponse(),
	})
}

// List lists operations
// @Summary List operations
// @Description List all cases (Admin only), optionally filtered by status
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(draft, submitted, in_review, pending_documents, approved, rejected, cancelled)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	ops, total, err := h.operationService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Operations retrieved successfully", fiber.Map{
		"operations": toOperationResponses(ops),
		"pagination": pagination.GetMeta(params, total),
	})
}

// ListMine lists the authenticated partner's own operations
// @Summary List my operations
// @Description List the authenticated partner's cases
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /operations/my [get]
func (h *OperationHandler) ListMine(c *fiber.Ctx) error {
	actorID, _ := actorFromLocals(c)
	if actorID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	ops, total, err := h.operationService.ListByPartner(c.Context(), actorID, params.Offset, params.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Operations retrieved successfully", fiber.Map{
		"operations": toOperationResponses(ops),
		"pagination": pagination.GetMeta(params, total),
	})
}

// GetByID gets an operation by ID
// @Summary Get operation
// @Description Get a specific case. Partners can only read their own cases.
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Operation ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /operations/{id} [get]
func (h *OperationHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid operation ID")
	}

	op, err := h.operationService.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	actorID, role := actorFromLocals(c)
	if role == jwt.RolePartner && op.PartnerID != actorID {
		return response.Forbidden(c, "Access denied")
	}

	return response.Success(c, "Operation retrieved successfully", fiber.Map{
		"operation": op.ToResponse(),
	})
}

// Update partially updates an operation
// @Summary Update operation
// @Description Update the fields present in the request body, leaving the rest untouched
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Operation ID"
// @Param body body services.OperationFields true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /operations/{id} [put]
func (h *OperationHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid operation ID")
	}

	var fields services.OperationFields
	if err := c.BodyParser(&fields); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actorID, role := actorFromLocals(c)
	if role == jwt.RolePartner {
		op, err := h.operationService.GetByID(c.Context(), uint(id))
		if err != nil {
			return response.DomainError(c, err)
		}
		if op.PartnerID != actorID {
			return response.Forbidden(c, "Access denied")
		}
	}

	op, err := h.operationService.Update(c.Context(), uint(id), &fields)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Operation updated successfully", fiber.Map{
		"operation": op.ToResponse(),
	})
}

// UpdateStatus changes an operation's lifecycle status
// @Summary Update operation status
// @Description Move a case to a new lifecycle status (Admin only)
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Operation ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /operations/{id}/status [put]
func (h *OperationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid operation ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	op, err := h.operationService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Status updated successfully", fiber.Map{
		"operation": op.ToResponse(),
	})
}

// Submit moves the authenticated partner's case to submitted
// @Summary Submit operation
// @Description Submit a draft case for review
// @Tags Operations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Operation ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /operations/{id}/submit [put]
func (h *OperationHandler) Submit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid operation ID")
	}

	actorID, role := actorFromLocals(c)
	if role == jwt.RolePartner {
		op, err := h.operationService.GetByID(c.Context(), uint(id))
		if err != nil {
			return response.DomainError(c, err)
		}
		if op.PartnerID != actorID {
			return response.Forbidden(c, "Access denied")
		}
	}

	op, err := h.operationService.UpdateStatus(c.Context(), uint(id), string(domain.OperationSubmitted))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Operation submitted successfully", fiber.Map{
		"operation": op.ToResponse(),
	})
}
