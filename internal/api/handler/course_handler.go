package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

type createCourseRequest struct {
	Title                string   `json:"title" validate:"required" example:"Front End Web Development"`
	Description          string   `json:"description" validate:"required"`
	Weeks                string   `json:"weeks" validate:"required" example:"8"`
	Tuition              *float64 `json:"tuition" validate:"required,gte=0" example:"8000"`
	MinimumSkill         string   `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool     `json:"scholarshipAvailable"`
}

type updateCourseRequest struct {
	Title                *string  `json:"title" validate:"omitempty,min=1"`
	Description          *string  `json:"description" validate:"omitempty,min=1"`
	Weeks                *string  `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,gte=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// CourseHandler handles HTTP requests for courses.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List handles GET /courses and GET /bootcamps/:bootcampId/courses.
//
// @Summary      List courses
// @Description  Under a bootcamp the listing is scoped to that bootcamp.
// @Tags         courses
// @Produce      json
// @Param        bootcampId  path      string  false  "Bootcamp id"
// @Param        select      query     string  false  "Comma separated fields"
// @Param        sort        query     string  false  "Sort fields"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  response{data=[]domain.Course}
// @Failure      400         {object}  ErrorResponse
// @Router       /courses [get]
// @Router       /bootcamps/{bootcampId}/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), c.Param("bootcampId"), c.QueryParams())
	if err != nil {
		return err
	}
	return list(c, page)
}

// Get handles GET /courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  response{data=domain.Course}
// @Failure      404  {object}  ErrorResponse
// @Router       /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, course)
}

// Create handles POST /bootcamps/:bootcampId/courses.
//
// @Summary      Add a course to a bootcamp
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bootcampId  path      string               true  "Bootcamp id"
// @Param        body        body      createCourseRequest  true  "Course"
// @Success      201         {object}  response{data=domain.Course}
// @Failure      400         {object}  ErrorResponse
// @Failure      403         {object}  ErrorResponse
// @Failure      404         {object}  ErrorResponse
// @Router       /bootcamps/{bootcampId}/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createCourseRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	course, err := h.service.Create(c.Request().Context(), user, c.Param("bootcampId"), ports.CourseInput{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              *req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, course)
}

// Update handles PUT /courses/:id.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course id"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  response{data=domain.Course}
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateCourseRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	course, err := h.service.Update(c.Request().Context(), user, c.Param("id"), ports.CoursePatch{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, course)
}

// Delete handles DELETE /courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return empty(c)
}
