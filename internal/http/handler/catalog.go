package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/http/middleware"
	"umrahportal/internal/model"
	"umrahportal/internal/service"
	"umrahportal/internal/storage"
)

// ListPackages lists active packages, optionally by category or featured flag.
//
//	@Summary	List travel packages
//	@Tags		catalog
//	@Produce	json
//	@Param		category	query		string	false	"umrah or hajj"
//	@Param		featured	query		bool	false	"featured only"
//	@Param		limit		query		int		false	"page size"		default(10)
//	@Param		offset		query		int		false	"page offset"	default(0)
//	@Success	200			{object}	service.ListResult[model.TravelPackage]
//	@Failure	400			{object}	errorPayload
//	@Router		/api/v1/packages [get]
func ListPackages(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		q := service.PackageQuery{
			Category: model.PackageCategory(c.Query("category")),
			Featured: c.QueryBool("featured"),
			Limit:    limit,
			Offset:   offset,
		}
		if middleware.IdentityFrom(c).Role == model.RoleAdmin {
			q.IncludeInactive = c.QueryBool("include_inactive")
		}
		res, err := svc.ListPackages(c.UserContext(), q)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// GetPackage resolves a package by ID or slug.
//
//	@Summary	Get a travel package
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"package ID or slug"
//	@Success	200	{object}	model.TravelPackage
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/packages/{id} [get]
func GetPackage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.GetPackage(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// CreatePackage serves POST /api/v1/admin/packages.
//
//	@Summary	Create a travel package
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		package	body		model.TravelPackage	true	"package"
//	@Success	201		{object}	model.TravelPackage
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/v1/admin/packages [post]
func CreatePackage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.TravelPackage
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.CreatePackage(c.UserContext(), p)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdatePackage serves PUT /api/v1/admin/packages/{id}.
//
//	@Summary	Replace a travel package
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"package ID"
//	@Param		package	body		model.TravelPackage	true	"package"
//	@Success	200		{object}	model.TravelPackage
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/v1/admin/packages/{id} [put]
func UpdatePackage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		var p model.TravelPackage
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		updated, err := svc.UpdatePackage(c.UserContext(), id, p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(updated)
	}
}

// DeletePackage serves DELETE /api/v1/admin/packages/{id}.
//
//	@Summary	Delete a travel package
//	@Tags		admin
//	@Param		id	path	string	true	"package ID"
//	@Success	204
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/admin/packages/{id} [delete]
func DeletePackage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.DeletePackage(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListPromos serves GET /api/v1/promos.
//
//	@Summary	List promos
//	@Tags		catalog
//	@Produce	json
//	@Param		active	query		bool	false	"only promos valid now"
//	@Success	200		{object}	service.ListResult[model.Promo]
//	@Router		/api/v1/promos [get]
func ListPromos(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		res, err := svc.ListPromos(c.UserContext(), c.QueryBool("active"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// CreatePromo serves POST /api/v1/admin/promos.
//
//	@Summary	Create a promo
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		promo	body		model.Promo	true	"promo"
//	@Success	201		{object}	model.Promo
//	@Failure	400		{object}	errorPayload
//	@Router		/api/v1/admin/promos [post]
func CreatePromo(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Promo
		if err := c.BodyParser(&p); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.CreatePromo(c.UserContext(), p)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// DeletePromo serves DELETE /api/v1/admin/promos/{id}.
//
//	@Summary	Delete a promo
//	@Tags		admin
//	@Param		id	path	string	true	"promo ID"
//	@Success	204
//	@Failure	400	{object}	errorPayload
//	@Router		/api/v1/admin/promos/{id} [delete]
func DeletePromo(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		if err := svc.DeletePromo(c.UserContext(), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListEducation serves GET /api/v1/education.
//
//	@Summary	List education content
//	@Tags		catalog
//	@Produce	json
//	@Param		category	query		string	false	"manasik, doa, kesehatan"
//	@Success	200			{object}	service.ListResult[model.Education]
//	@Router		/api/v1/education [get]
func ListEducation(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		res, err := svc.ListEducation(c.UserContext(), c.Query("category"), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// GetEducation serves GET /api/v1/education/{id}.
//
//	@Summary	Get education content
//	@Tags		catalog
//	@Produce	json
//	@Param		id	path		string	true	"education ID"
//	@Success	200	{object}	model.Education
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/education/{id} [get]
func GetEducation(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		e, err := svc.GetEducation(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(e)
	}
}

// CreateEducation serves POST /api/v1/admin/education.
//
//	@Summary	Create education content
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		education	body		model.Education	true	"education"
//	@Success	201			{object}	model.Education
//	@Router		/api/v1/admin/education [post]
func CreateEducation(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e model.Education
		if err := c.BodyParser(&e); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.CreateEducation(c.UserContext(), e)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ListArticles serves GET /api/v1/articles.
//
//	@Summary	List published articles
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{object}	service.ListResult[model.Article]
//	@Router		/api/v1/articles [get]
func ListArticles(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		res, err := svc.ListArticles(c.UserContext(), limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// GetArticle serves GET /api/v1/articles/{slug}.
//
//	@Summary	Get a published article
//	@Tags		catalog
//	@Produce	json
//	@Param		slug	path		string	true	"article slug"
//	@Success	200		{object}	model.Article
//	@Failure	404		{object}	errorPayload
//	@Router		/api/v1/articles/{slug} [get]
func GetArticle(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.GetArticle(c.UserContext(), c.Params("slug"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(a)
	}
}

// CreateArticle serves POST /api/v1/admin/articles.
//
//	@Summary	Create an article
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		article	body		model.Article	true	"article"
//	@Success	201		{object}	model.Article
//	@Router		/api/v1/admin/articles [post]
func CreateArticle(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var a model.Article
		if err := c.BodyParser(&a); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		created, err := svc.CreateArticle(c.UserContext(), a)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// ListTestimonials lists approved testimonials. Admins may pass ?status=.
//
//	@Summary	List testimonials
//	@Tags		catalog
//	@Produce	json
//	@Param		status	query		string	false	"admin only: pending, approved, rejected"
//	@Success	200		{object}	service.ListResult[model.Testimonial]
//	@Router		/api/v1/testimonials [get]
func ListTestimonials(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pageParams(c)
		if !ok {
			return err
		}
		var status model.ReviewStatus
		if middleware.IdentityFrom(c).Role == model.RoleAdmin {
			if status, ok, err = statusParam(c); !ok {
				return err
			}
		}
		res, err := svc.ListTestimonials(c.UserContext(), status, limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

type testimonialBody struct {
	PackageID string `json:"package_id"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
}

// SubmitTestimonial serves POST /api/v1/testimonials.
//
//	@Summary	Submit a testimonial for review
//	@Tags		me
//	@Accept		json
//	@Produce	json
//	@Param		X-User-ID	header		string			true	"caller"
//	@Param		testimonial	body		testimonialBody	true	"testimonial"
//	@Success	201			{object}	model.Testimonial
//	@Failure	403			{object}	errorPayload
//	@Router		/api/v1/testimonials [post]
func SubmitTestimonial(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body testimonialBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		t, err := svc.SubmitTestimonial(c.UserContext(), actorFrom(c), model.Testimonial{
			PackageID: body.PackageID,
			Rating:    body.Rating,
			Content:   body.Content,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ReviewTestimonial serves POST /api/v1/admin/testimonials/{id}/review.
//
//	@Summary	Approve or reject a testimonial
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"testimonial ID"
//	@Param		review	body		reviewBody	true	"decision"
//	@Success	200		{object}	model.Testimonial
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/v1/admin/testimonials/{id}/review [post]
func ReviewTestimonial(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c, "id")
		if !ok {
			return err
		}
		in, ok, err := decodeReview(c)
		if !ok {
			return err
		}
		t, err := svc.ReviewTestimonial(c.UserContext(), id, in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(t)
	}
}

// UploadImage stores a content image (multipart field "file").
//
//	@Summary	Upload a content image
//	@Tags		admin
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		kind	path		string	true	"packages, promos, articles, education"
//	@Param		file	formData	file	true	"image"
//	@Success	201		{object}	service.UploadedImage
//	@Failure	400		{object}	errorPayload
//	@Router		/api/v1/admin/uploads/{kind} [post]
func UploadImage(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if fh.Size > storage.MaxUploadSize {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds upload limit")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		img, err := svc.UploadImage(c.UserContext(), c.Params("kind"), f, fh.Filename, contentType(fh.Header.Get("Content-Type")), fh.Size)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(img)
	}
}

// ServeMedia streams a public content image from object storage.
//
//	@Summary	Fetch a content image
//	@Tags		catalog
//	@Param		key	path	string	true	"object key under content/"
//	@Success	200
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/media/{key} [get]
func ServeMedia(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.OpenMedia(c.UserContext(), c.Params("*"))
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, contentType(info.ContentType))
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		if info.ETag != "" {
			c.Set(fiber.HeaderETag, strconv.Quote(info.ETag))
		}
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}

func contentType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
