package response

import (
	"errors"
	"log"

	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/dbretry"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response. Kind carries the stable
// machine-readable error classification; raw driver detail stays in logs.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// DomainError maps a classified domain error to an HTTP response. The
// user sees the kind and message only; the wrapped cause is logged here.
func DomainError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		var exhausted *dbretry.ExhaustedError
		if errors.As(err, &exhausted) {
			log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
			return kindError(c, fiber.StatusServiceUnavailable,
				domain.KindExhaustedRetries, "The service is temporarily unavailable, please try again")
		}
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return InternalServerError(c, "Internal server error")
	}

	if de.Err != nil {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), de)
	}

	switch de.Kind {
	case domain.KindValidation:
		return kindError(c, fiber.StatusBadRequest, de.Kind, de.Message)
	case domain.KindConflict:
		return kindError(c, fiber.StatusConflict, de.Kind, de.Message)
	case domain.KindNotFound:
		return kindError(c, fiber.StatusNotFound, de.Kind, de.Message)
	case domain.KindTransient, domain.KindExhaustedRetries:
		return kindError(c, fiber.StatusServiceUnavailable, de.Kind, de.Message)
	default:
		return kindError(c, fiber.StatusInternalServerError, de.Kind, de.Message)
	}
}

func kindError(c *fiber.Ctx, statusCode int, kind domain.Kind, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
		Kind:    string(kind),
	})
}
