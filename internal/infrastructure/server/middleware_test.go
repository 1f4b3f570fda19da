package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/infrastructure/logger"
)

func TestCustomErrorHandlerMapsValidationErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verr := validator.New().Struct(struct {
		Name string `validate:"required"`
	}{})
	require.Error(t, verr)
	require.IsType(t, validator.ValidationErrors{}, verr)

	customErrorHandler(logger.NewNop())(verr, c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
}

func TestCustomErrorHandlerPassesThroughHTTPErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	customErrorHandler(logger.NewNop())(echo.NewHTTPError(http.StatusNotFound, "gone"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "gone")
}
