package handler

import (
	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/service"
)

// ListPayments serves GET /api/v1/admin/payments.
//
//	@Summary	List payments for review
//	@Tags		admin
//	@Produce	json
//	@Param		status	query		string	false	"pending, approved, rejected"
//	@Param		limit	query		int		false	"page size"		default(10)
//	@Param		offset	query		int		false	"page offset"	default(0)
//	@Success	200		{object}	service.ListResult[model.Payment]
//	@Router		/api/v1/admin/payments [get]
func ListPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		status, ok, err := statusParam(c)
		if !ok {
			return err
		}
		res, err := svc.ListPayments(c.UserContext(), status, limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// ReviewPayment approves or rejects a pending payment.
//
//	@Summary	Review a payment
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"payment ID"
//	@Param		review	body		reviewBody	true	"decision"
//	@Success	200		{object}	model.Payment
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/v1/admin/payments/{id}/review [post]
func ReviewPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		in, ok, err := decodeReview(c)
		if !ok {
			return err
		}
		p, err := svc.ReviewPayment(c.UserContext(), id, in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// ListUpgradeRequests serves GET /api/v1/admin/upgrade-requests.
//
//	@Summary	List upgrade requests
//	@Tags		admin
//	@Produce	json
//	@Param		status	query		string	false	"pending, approved, rejected"
//	@Success	200		{object}	service.ListResult[model.UpgradeRequest]
//	@Router		/api/v1/admin/upgrade-requests [get]
func ListUpgradeRequests(svc service.UpgradeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		status, ok, err := statusParam(c)
		if !ok {
			return err
		}
		res, err := svc.ListUpgradeRequests(c.UserContext(), status, limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// ReviewUpgrade approves (changing the user's role) or rejects a request.
//
//	@Summary	Review an upgrade request
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"request ID"
//	@Param		review	body		reviewBody	true	"decision"
//	@Success	200		{object}	model.UpgradeRequest
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/v1/admin/upgrade-requests/{id}/review [post]
func ReviewUpgrade(svc service.UpgradeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		in, ok, err := decodeReview(c)
		if !ok {
			return err
		}
		r, err := svc.ReviewUpgrade(c.UserContext(), id, in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(r)
	}
}
