package handler

import (
	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/gateway"
	"umrahportal/internal/service"
)

// PaymentNotification applies a gateway HTTP notification. Non-2xx answers make
// the gateway retry, so repeats must stay harmless.
//
//	@Summary	Payment gateway notification
//	@Tags		webhooks
//	@Accept		json
//	@Produce	json
//	@Param		notification	body		gateway.Notification	true	"notification"
//	@Success	200				{object}	service.NotificationResult
//	@Failure	401				{object}	errorPayload
//	@Failure	404				{object}	errorPayload
//	@Router		/api/v1/webhooks/payment [post]
func PaymentNotification(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n gateway.Notification
		if err := c.BodyParser(&n); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.HandleNotification(c.UserContext(), n)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}
