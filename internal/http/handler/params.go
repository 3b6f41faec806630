package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"umrahportal/internal/http/middleware"
	"umrahportal/internal/model"
	"umrahportal/internal/service"
)

// reviewBody is the admin decision payload shared by every review endpoint.
type reviewBody struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func actorFrom(c *fiber.Ctx) service.Actor {
	id := middleware.IdentityFrom(c)
	return service.Actor{UserID: id.UserID, Email: id.Email, Role: id.Role}
}

// idParam reads a UUID path parameter. Malformed IDs never reach the store.
func idParam(c *fiber.Ctx, name string) (string, bool, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, true, nil
}

// pageParams reads limit/offset. Missing values default to 10 and 0; the
// service clamps the rest.
func pageParams(c *fiber.Ctx) (limit, offset int, ok bool, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, false, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, false, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, true, nil
}

// statusParam reads an optional ?status= review filter.
func statusParam(c *fiber.Ctx) (model.ReviewStatus, bool, error) {
	s := model.ReviewStatus(c.Query("status"))
	if s != "" && !s.Valid() {
		return "", false, writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status")
	}
	return s, true, nil
}

// decodeReview parses a review body and stamps the reviewer from the identity.
func decodeReview(c *fiber.Ctx) (service.ReviewInput, bool, error) {
	var body reviewBody
	if err := c.BodyParser(&body); err != nil {
		return service.ReviewInput{}, false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}
	return service.ReviewInput{
		Approve:  body.Approve,
		Reviewer: middleware.IdentityFrom(c).UserID,
		Note:     body.Note,
	}, true, nil
}
