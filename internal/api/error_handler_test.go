package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

func TestErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", domain.NotFound("xyz"), http.StatusNotFound, "Resource not found with id of xyz"},
		{"validation", domain.Errorf(domain.ErrValidation, "Please add a name"), http.StatusBadRequest, "Please add a name"},
		{"geocode", &domain.Error{Kind: domain.ErrGeocode}, http.StatusBadRequest, "could not geocode address"},
		{"unauthorized", &domain.Error{Kind: domain.ErrUnauthorized, Message: "Not authorized to access this route"}, http.StatusUnauthorized, "Not authorized to access this route"},
		{"credentials", &domain.Error{Kind: domain.ErrInvalidCredentials, Message: "Invalid credentials"}, http.StatusUnauthorized, "Invalid credentials"},
		{"forbidden", domain.Errorf(domain.ErrForbidden, "User x is not authorized to update this bootcamp"), http.StatusForbidden, "User x is not authorized to update this bootcamp"},
		{"conflict", &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}, http.StatusConflict, "Duplicate field value entered"},
		{"wrapped sentinel", fmt.Errorf("find: %w", domain.NotFound("abc")), http.StatusNotFound, "Resource not found with id of abc"},
		{"upstream", &domain.Error{Kind: domain.ErrUpstream, Message: "Email could not be sent"}, http.StatusInternalServerError, "Email could not be sent"},
		{"query", &query.Error{Param: "secret", Msg: `unknown field "secret" in query`}, http.StatusBadRequest, `unknown field "secret" in query`},
		{"duplicate key", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, http.StatusConflict, "Duplicate field value entered"},
		{"echo", echo.NewHTTPError(http.StatusNotFound, "Not Found"), http.StatusNotFound, "Not Found"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success {
				t.Fatalf("success must be false")
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response must not be rewritten, got %d", rec.Code)
	}
}
