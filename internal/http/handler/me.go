package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/model"
	"umrahportal/internal/service"
	"umrahportal/internal/storage"
)

// Dashboard renders the caller's role-based dashboard.
//
//	@Summary	Role-based dashboard
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Success	200			{object}	service.Dashboard
//	@Failure	401			{object}	errorPayload
//	@Router		/api/v1/me/dashboard [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Dashboard(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(d)
	}
}

// GetProfile serves GET /api/v1/me/profile.
//
//	@Summary	Get my profile with completeness
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Success	200			{object}	service.ProfileView
//	@Router		/api/v1/me/profile [get]
func GetProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := svc.GetProfile(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(v)
	}
}

// UpdateProfile replaces the caller's profile fields.
//
//	@Summary	Update my profile
//	@Tags		me
//	@Accept		json
//	@Produce	json
//	@Param		X-User-ID	header		string			true	"caller"
//	@Param		profile		body		model.Profile	true	"profile"
//	@Success	200			{object}	service.ProfileView
//	@Failure	400			{object}	errorPayload
//	@Router		/api/v1/me/profile [put]
func UpdateProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Profile
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		v, err := svc.UpdateProfile(c.UserContext(), actorFrom(c), p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(v)
	}
}

// ProfileCompleteness serves GET /api/v1/me/profile/completeness.
//
//	@Summary	My profile completeness
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Success	200			{object}	service.Completeness
//	@Router		/api/v1/me/profile/completeness [get]
func ProfileCompleteness(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Completeness(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// ListMyPayments serves GET /api/v1/me/payments.
//
//	@Summary	List my payments
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header	string	true	"caller"
//	@Success	200			{array}	model.Payment
//	@Router		/api/v1/me/payments [get]
func ListMyPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListMyPayments(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// GetMyPayment returns one payment owned by the caller (or any, for admins).
//
//	@Summary	Get a payment
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Param		id			path		string	true	"payment ID"
//	@Success	200			{object}	model.Payment
//	@Failure	400			{object}	errorPayload
//	@Failure	403			{object}	errorPayload
//	@Router		/api/v1/me/payments/{id} [get]
func GetMyPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		p, err := svc.GetPayment(c.UserContext(), actorFrom(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// SubmitPayment accepts a manual transfer as multipart/form-data with the
// fields package_id, amount, note and the proof file in "proof".
//
//	@Summary	Submit a transfer with proof
//	@Tags		me
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Param		package_id	formData	string	true	"package ID"
//	@Param		amount		formData	int		true	"amount in rupiah"
//	@Param		note		formData	string	false	"note"
//	@Param		proof		formData	file	true	"transfer proof"
//	@Success	201			{object}	model.Payment
//	@Failure	400			{object}	errorPayload
//	@Router		/api/v1/me/payments [post]
func SubmitPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := strconv.ParseInt(c.FormValue("amount"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "invalid amount")
		}
		fh, err := c.FormFile("proof")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "proof file is required")
		}
		if fh.Size > storage.MaxUploadSize {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds upload limit")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		p, err := svc.SubmitPayment(c.UserContext(), actorFrom(c), service.SubmitPaymentInput{
			PackageID:   c.FormValue("package_id"),
			Amount:      amount,
			Note:        c.FormValue("note"),
			Proof:       f,
			Filename:    fh.Filename,
			ContentType: contentType(fh.Header.Get("Content-Type")),
			Size:        fh.Size,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

type gatewayBody struct {
	PackageID string `json:"package_id"`
}

// StartGatewayPayment serves POST /api/v1/me/payments/gateway.
//
//	@Summary	Start a gateway checkout for a package
//	@Tags		me
//	@Accept		json
//	@Produce	json
//	@Param		X-User-ID	header		string		true	"caller"
//	@Param		checkout	body		gatewayBody	true	"package"
//	@Success	201			{object}	service.GatewayCheckout
//	@Failure	503			{object}	errorPayload
//	@Router		/api/v1/me/payments/gateway [post]
func StartGatewayPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body gatewayBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.StartGatewayPayment(c.UserContext(), actorFrom(c), body.PackageID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// MyItineraries serves GET /api/v1/me/itineraries.
//
//	@Summary	Itineraries of my paid packages
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header	string	true	"caller"
//	@Success	200			{array}	model.Itinerary
//	@Router		/api/v1/me/itineraries [get]
func MyItineraries(svc service.ItineraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.MyItineraries(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// CheckUpgrade runs the jamaah to alumni check for the caller.
//
//	@Summary	Check alumni upgrade
//	@Tags		me
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"caller"
//	@Success	200			{object}	service.UpgradeResult
//	@Router		/api/v1/me/upgrade [post]
func CheckUpgrade(svc service.UpgradeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.CheckUpgrade(c.UserContext(), actorFrom(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

type upgradeRequestBody struct {
	PackageID string `json:"package_id"`
	Note      string `json:"note"`
}

// RequestUpgrade serves POST /api/v1/me/upgrade-requests.
//
//	@Summary	Ask an admin for jamaah access
//	@Tags		me
//	@Accept		json
//	@Produce	json
//	@Param		X-User-ID	header		string				true	"caller"
//	@Param		request		body		upgradeRequestBody	false	"package and note"
//	@Success	201			{object}	model.UpgradeRequest
//	@Failure	409			{object}	errorPayload
//	@Router		/api/v1/me/upgrade-requests [post]
func RequestUpgrade(svc service.UpgradeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body upgradeRequestBody
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}
		req, err := svc.RequestUpgrade(c.UserContext(), actorFrom(c), body.PackageID, body.Note)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}
