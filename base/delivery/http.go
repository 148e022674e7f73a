package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/marketclient/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
	Code   string             `json:"code,omitempty"`
}

var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrBadParamInput, http.StatusBadRequest},
	{domain.ErrLedgerUnavailable, http.StatusServiceUnavailable},
	{domain.ErrLedgerMalformedResponse, http.StatusBadGateway},
	{domain.ErrMetadataUnreachable, http.StatusBadGateway},
	{domain.ErrMetadataInvalid, http.StatusBadGateway},
	{domain.ErrIdOutOfRange, http.StatusUnprocessableEntity},
	{domain.ErrPriceConversion, http.StatusBadRequest},
	{domain.ErrNoSigningIdentity, http.StatusUnauthorized},
	{domain.ErrTransactionRejected, http.StatusForbidden},
	{domain.ErrTransactionReverted, http.StatusConflict},
	{domain.ErrTransactionTimeout, http.StatusGatewayTimeout},
}

// StatusOf maps a domain error to the http status reported for it
func StatusOf(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// MakeJsonResp writes data in the json envelope. An error as data overrides status by its kind
// and carries domain.ErrorCode in the code field.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	code := ""
	if err, ok := data.(error); ok {
		status = StatusOf(err)
		code = domain.ErrorCode(err)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail, code})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess, code})
	}

	return c.JSON(status, data)
}
