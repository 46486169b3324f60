// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/efine-sl/efine-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// baseHandler carries the helpers every handler shares
type baseHandler struct {
	validator *validator.Validate
}

func newBaseHandler() baseHandler {
	return baseHandler{validator: validator.New()}
}

// ErrorResponse standard JSON error
func (h *baseHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// bindJSON decodes and validates a request body, writing the 400 response itself on failure.
// The returned bool is false when the handler must stop.
func (h *baseHandler) bindJSON(c fiber.Ctx, req any) (bool, error) {
	if err := c.Bind().JSON(req); err != nil {
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	return h.validate(c, req)
}

func (h *baseHandler) validate(c fiber.Ctx, req any) (bool, error) {
	if err := h.validator.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return false, h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", nil)
		}
		messages := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			messages = append(messages, getValidationErrorMessage(fe))
		}
		return false, h.ErrorResponse(c, fiber.StatusBadRequest, messages[0], "VALIDATION_ERROR", messages)
	}
	return true, nil
}

// writeFlowError maps a business flow error onto the response. Only kinds with a known
// status expose their message; anything else is logged and hidden behind a generic 500.
func (h *baseHandler) writeFlowError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case businessflow.IsBadRequest(err), businessflow.IsInvalidCaptcha(err), businessflow.IsInvalidTwoFactorCode(err):
		status = fiber.StatusBadRequest
	case businessflow.IsInvalidCredentials(err), businessflow.IsUnauthorized(err):
		status = fiber.StatusUnauthorized
	case businessflow.IsAccountDeactivated(err), businessflow.IsTwoFactorRequired(err), businessflow.IsForbidden(err):
		status = fiber.StatusForbidden
	case businessflow.IsNotFound(err):
		status = fiber.StatusNotFound
	case businessflow.IsConflict(err):
		status = fiber.StatusConflict
	case businessflow.IsNotConfigured(err), businessflow.IsDeliveryFailed(err):
	default:
		zap.L().Error("unhandled flow error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", requestid.FromContext(c)),
			zap.Error(err),
		)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR", nil)
	}

	message, code := "Request failed", "ERROR"
	if be, ok := businessflow.AsBusinessError(err); ok {
		message, code = be.Message, be.Code
	}
	return h.ErrorResponse(c, status, message, code, nil)
}

// createRequestContext builds the flow context with request-scoped values; callers must defer cancel
func (h *baseHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, requestid.FromContext(c))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get(fiber.HeaderUserAgent))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	return ctx, cancel
}

func (h *baseHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata(c.IP(), c.Get(fiber.HeaderUserAgent), requestid.FromContext(c))
}

// sendXLSX writes a workbook as an attachment
func sendXLSX(c fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "len":
		return err.Field() + " must be exactly " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "numeric":
		return err.Field() + " must contain only numbers"
	case "uuid":
		return err.Field() + " must be a valid id"
	case "url":
		return err.Field() + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
