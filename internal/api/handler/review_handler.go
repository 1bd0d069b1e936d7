package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

type createReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100" example:"Learned a ton!"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10" example:"8"`
}

type updateReviewRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=1,max=100"`
	Text   *string `json:"text" validate:"omitempty,min=1"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=10"`
}

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List handles GET /reviews and GET /bootcamps/:bootcampId/reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        bootcampId  path      string  false  "Bootcamp id"
// @Param        select      query     string  false  "Comma separated fields"
// @Param        sort        query     string  false  "Sort fields"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  response{data=[]domain.Review}
// @Failure      400         {object}  ErrorResponse
// @Router       /reviews [get]
// @Router       /bootcamps/{bootcampId}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.Param("bootcampId"), c.QueryParams())
	if err != nil {
		return err
	}
	return list(c, page)
}

// Get handles GET /reviews/:id.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review id"
// @Success      200  {object}  response{data=domain.Review}
// @Failure      404  {object}  ErrorResponse
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, r)
}

// Create handles POST /bootcamps/:bootcampId/reviews.
//
// @Summary      Review a bootcamp
// @Description  One review per user and bootcamp.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bootcampId  path      string               true  "Bootcamp id"
// @Param        body        body      createReviewRequest  true  "Review"
// @Success      201         {object}  response{data=domain.Review}
// @Failure      400         {object}  ErrorResponse
// @Failure      404         {object}  ErrorResponse
// @Failure      409         {object}  ErrorResponse
// @Router       /bootcamps/{bootcampId}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), user, c.Param("bootcampId"), ports.ReviewInput{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, r)
}

// Update handles PUT /reviews/:id.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review id"
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  response{data=domain.Review}
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateReviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	r, err := h.service.Update(c.Request().Context(), user, c.Param("id"), ports.ReviewPatch{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, r)
}

// Delete handles DELETE /reviews/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review id"
// @Success      200  {object}  response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return empty(c)
}
