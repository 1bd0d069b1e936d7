package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

// response is the envelope shared by every endpoint.
type response struct {
	Success    bool              `json:"success"`
	Count      *int              `json:"count,omitempty"`
	Total      *int64            `json:"total,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       any               `json:"data,omitempty"`
	Token      string            `json:"token,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ErrorResponse documents the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Resource not found with id of 5d725a1b7b292f5f8ceff788"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, response{Success: true, Data: data})
}

// empty answers deletes and other calls with nothing to return: data is {}.
func empty(c echo.Context) error {
	return c.JSON(http.StatusOK, response{Success: true, Data: struct{}{}})
}

func list[T any](c echo.Context, page *ports.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	data, err := query.SparseAll(items, page.Fields)
	if err != nil {
		return err
	}
	count := len(items)
	pagination := page.Pagination
	total := page.Total
	return c.JSON(http.StatusOK, response{
		Success:    true,
		Count:      &count,
		Total:      &total,
		Pagination: &pagination,
		Data:       data,
	})
}

func collection[T any](c echo.Context, items []T) error {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, response{Success: true, Count: &count, Data: items})
}
