package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/delivery"
	"github.com/x-xyz/marketclient/domain"
	hcdomain "github.com/x-xyz/marketclient/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New registers GET /health
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	e.GET("/health", handler.check)
}

// check answers 503 with the full report when the ledger is down
func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	report, err := h.healthCheck.Check(context)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, delivery.JsonResponse{
			Data:   report,
			Status: delivery.JsonResponseStatusFail,
			Code:   domain.ErrorCode(err),
		})
	}
	return delivery.MakeJsonResp(c, http.StatusOK, report)
}
