package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/x-xyz/marketclient/base/ctx"
	"github.com/x-xyz/marketclient/base/delivery"
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

type handler struct {
	marketplace domain.MarketplaceUseCase
}

type purchaseParams struct {
	ListingId int64 `param:"listingId" validate:"min=1"`
	// Price, when sent, must match the listed price
	Price string `json:"price" validate:"omitempty,decimal"`
}

func New(e *echo.Echo, marketplace domain.MarketplaceUseCase) {
	h := &handler{marketplace}

	g := e.Group("/listings")

	g.GET("", h.current)

	g.POST("/refresh", h.refresh)

	g.POST("/:listingId/purchase", h.purchase)
}

// current returns the last snapshot, null data means no refresh succeeded yet
func (h *handler) current(c echo.Context) error {
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.Current())
}

func (h *handler) refresh(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if _, err := h.marketplace.RefreshListings(ctx); err != nil {
		ctx.WithField("err", err).Error("marketplace.RefreshListings failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.marketplace.Current())
}

func (h *handler) purchase(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &purchaseParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	listing, err := h.marketplace.Find(p.ListingId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	}
	if p.Price != "" {
		if price := decimal.RequireFromString(p.Price); !price.Equal(listing.Price) {
			err := domain.NewError(domain.ErrBadParamInput, xerrors.Errorf("listed price is %s", listing.Price))
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
	}

	receipt, err := h.marketplace.Purchase(ctx, listing)
	if err != nil {
		ctx.WithField("err", err).Error("marketplace.Purchase failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}
