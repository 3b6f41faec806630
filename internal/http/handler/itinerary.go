package handler

import (
	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/model"
	"umrahportal/internal/service"
)

// GetItinerary serves GET /api/v1/itineraries/{id}.
//
//	@Summary	Get an itinerary
//	@Tags		itineraries
//	@Produce	json
//	@Param		id	path		string	true	"itinerary ID"
//	@Success	200	{object}	model.Itinerary
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/itineraries/{id} [get]
func GetItinerary(svc service.ItineraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		it, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(it)
	}
}

// PackageItineraries lists the departures scheduled for one package.
//
//	@Summary	Itineraries of a package
//	@Tags		itineraries
//	@Produce	json
//	@Param		id	path	string	true	"package ID"
//	@Success	200	{array}	model.Itinerary
//	@Router		/api/v1/packages/{id}/itineraries [get]
func PackageItineraries(svc service.ItineraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListForPackage(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// CreateItinerary serves POST /api/v1/admin/itineraries.
//
//	@Summary	Create an itinerary
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		itinerary	body		model.Itinerary	true	"itinerary with days"
//	@Success	201			{object}	model.Itinerary
//	@Failure	400			{object}	errorPayload
//	@Router		/api/v1/admin/itineraries [post]
func CreateItinerary(svc service.ItineraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it model.Itinerary
		if err := c.BodyParser(&it); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.Create(c.UserContext(), it)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

type itineraryStatusBody struct {
	Status model.ItineraryStatus `json:"status"`
}

// UpdateItineraryStatus serves PATCH /api/v1/admin/itineraries/{id}/status.
//
//	@Summary	Move an itinerary to scheduled, ongoing or completed
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"itinerary ID"
//	@Param		status	body		itineraryStatusBody	true	"new status"
//	@Success	200		{object}	model.Itinerary
//	@Failure	400	{object}	errorPayload
//	@Router		/api/v1/admin/itineraries/{id}/status [patch]
func UpdateItineraryStatus(svc service.ItineraryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		var body itineraryStatusBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		it, err := svc.UpdateStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(it)
	}
}
