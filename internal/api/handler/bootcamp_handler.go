package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

// BootcampHandler handles HTTP requests for bootcamps.
type BootcampHandler struct {
	service ports.BootcampService
}

func NewBootcampHandler(service ports.BootcampService) *BootcampHandler {
	return &BootcampHandler{service: service}
}

// List handles GET /bootcamps.
//
// @Summary      List bootcamps
// @Description  Supports field filters with gt, gte, lt, lte and in operators, select, sort, page and limit.
// @Tags         bootcamps
// @Produce      json
// @Param        select  query     string  false  "Comma separated fields"
// @Param        sort    query     string  false  "Comma separated fields, prefix - for descending"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(10)
// @Success      200     {object}  response{data=[]domain.Bootcamp}
// @Failure      400     {object}  ErrorResponse
// @Router       /bootcamps [get]
func (h *BootcampHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return list(c, page)
}

// Get handles GET /bootcamps/:id.
//
// @Summary      Get a bootcamp
// @Tags         bootcamps
// @Produce      json
// @Param        id   path      string  true  "Bootcamp id"
// @Success      200  {object}  response{data=domain.Bootcamp}
// @Failure      404  {object}  ErrorResponse
// @Router       /bootcamps/{id} [get]
func (h *BootcampHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, b)
}

// Create handles POST /bootcamps.
//
// @Summary      Create a bootcamp
// @Description  The address is geocoded into a GeoJSON location. A publisher may own one bootcamp.
// @Tags         bootcamps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBootcampRequest  true  "Bootcamp"
// @Success      201   {object}  response{data=domain.Bootcamp}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /bootcamps [post]
func (h *BootcampHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createBootcampRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	metrics.BootcampsCreatedTotal.Inc()
	return ok(c, http.StatusCreated, b)
}

// Update handles PUT /bootcamps/:id.
//
// @Summary      Update a bootcamp
// @Tags         bootcamps
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Bootcamp id"
// @Param        body  body      updateBootcampRequest  true  "Fields to change"
// @Success      200   {object}  response{data=domain.Bootcamp}
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /bootcamps/{id} [put]
func (h *BootcampHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateBootcampRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	b, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, b)
}

// Delete handles DELETE /bootcamps/:id.
//
// @Summary      Delete a bootcamp
// @Tags         bootcamps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Bootcamp id"
// @Success      200  {object}  response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /bootcamps/{id} [delete]
func (h *BootcampHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return empty(c)
}

// WithinRadius handles GET /bootcamps/radius/:zipcode/:distance.
//
// @Summary      Bootcamps within a radius
// @Tags         bootcamps
// @Produce      json
// @Param        zipcode   path      string  true  "Zipcode at the centre"
// @Param        distance  path      number  true  "Radius in miles"
// @Success      200       {object}  response{data=[]domain.Bootcamp}
// @Failure      400       {object}  ErrorResponse
// @Router       /bootcamps/radius/{zipcode}/{distance} [get]
func (h *BootcampHandler) WithinRadius(c echo.Context) error {
	miles, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil || miles <= 0 {
		return domain.Errorf(domain.ErrValidation, "Invalid distance %q", c.Param("distance"))
	}

	bootcamps, err := h.service.WithinRadius(c.Request().Context(), c.Param("zipcode"), miles)
	if err != nil {
		return err
	}
	return collection(c, bootcamps)
}

// UploadPhoto handles PUT /bootcamps/:id/photo.
//
// @Summary      Upload a bootcamp photo
// @Tags         bootcamps
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Bootcamp id"
// @Param        file  formData  file    true  "Image file"
// @Success      200   {object}  response{data=string}
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /bootcamps/{id}/photo [put]
func (h *BootcampHandler) UploadPhoto(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.Errorf(domain.ErrValidation, "Please upload a file")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	photo, err := h.service.UploadPhoto(c.Request().Context(), user, c.Param("id"), ports.PhotoUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, photo)
}
