package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/client"
	"storefront/internal/service"
)

// httpError maps service errors onto HTTP responses; backend status errors
// pass through with their original code.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusConflict, "cart is empty")
	case errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrMissingCard):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, client.ErrInvalidCEP),
		errors.Is(err, client.ErrCEPNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var se *client.StatusError
	if errors.As(err, &se) {
		return echo.NewHTTPError(se.Code, se.Body)
	}
	return err
}
