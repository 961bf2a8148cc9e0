package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"counseling-be/internal/pkg/apperror"
)

type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) BaseResponse {
	return BaseResponse{Success: true, Message: message, Data: data}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into JSON
// responses, mapping the error kind to an HTTP status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(BaseResponse{Success: false, Message: fiberErr.Message})
		}

		status := fiber.StatusInternalServerError
		switch apperror.KindOf(err) {
		case apperror.KindValidation:
			status = fiber.StatusBadRequest
		case apperror.KindConflict:
			status = fiber.StatusConflict
		}

		message := err.Error()
		if status == fiber.StatusInternalServerError {
			// Internal causes stay in the log, not in the response body.
			message = "internal server error"
		}
		return ctx.Status(status).JSON(BaseResponse{Success: false, Message: message})
	}
}
