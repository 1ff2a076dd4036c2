package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// CustomerHandler exposes the logged-in customer's profile and the coupon
// purchase flow. The acting customer id always comes from the session.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// @Summary      Get the logged-in customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Customer
// @Router       /customers/me [get]
func (h *CustomerHandler) Me(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	customer, err := h.service.GetCustomer(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateMe updates the logged-in customer's profile. An empty password keeps
// the current credential.
//
// @Summary      Update the logged-in customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Router       /customers/me [put]
func (h *CustomerHandler) UpdateMe(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer, err := h.service.UpdateCustomer(c.Request().Context(), customerID, ports.UpdateCustomerInput{
		ID:       customerID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Purchase reserves one unit of the coupon for the logged-in customer.
//
// @Summary      Purchase a coupon
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Coupon id"
// @Success      200  {object}  domain.Coupon
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /customers/coupons/{id}/purchase [post]
func (h *CustomerHandler) Purchase(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	couponID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	coupon, err := h.service.Purchase(c.Request().Context(), customerID, couponID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// Return gives one unit of the coupon back.
//
// @Summary      Return a coupon
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Coupon id"
// @Success      200  {object}  domain.Coupon
// @Failure      404  {object}  map[string]string
// @Router       /customers/coupons/{id}/return [post]
func (h *CustomerHandler) Return(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	couponID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	coupon, err := h.service.Return(c.Request().Context(), customerID, couponID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// @Summary      List the customer's purchased coupons
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Coupon
// @Router       /customers/coupons [get]
func (h *CustomerHandler) PurchasedCoupons(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	coupons, err := h.service.PurchasedCoupons(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}

// @Summary      Count the customer's purchased coupons
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  countResponse
// @Router       /customers/coupons/count [get]
func (h *CustomerHandler) PurchasedCount(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	count, err := h.service.PurchasedCount(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: count})
}

// AvailableCoupons lists coupons the customer does not hold yet. Optional
// filters narrow the result: category or max_price (exclusive). The first
// filter present wins.
//
// @Summary      List coupons available to purchase
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        category   query     int     false  "Filter by category"
// @Param        max_price  query     number  false  "Filter by price strictly below"
// @Success      200  {array}  domain.Coupon
// @Failure      400  {object}  map[string]string
// @Router       /customers/coupons/available [get]
func (h *CustomerHandler) AvailableCoupons(c echo.Context) error {
	customerID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if raw := c.QueryParam("category"); raw != "" {
		category, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		coupons, err := h.service.AvailableCouponsByCategory(ctx, customerID, category)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, coupons)
	}

	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		coupons, err := h.service.AvailableCouponsPriceBelow(ctx, customerID, price)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, coupons)
	}

	coupons, err := h.service.AvailableCoupons(ctx, customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}

// CouponsEndingBefore lists every coupon, regardless of owner or holder,
// whose end date falls before the given instant.
//
// @Summary      List coupons ending before a date
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  true  "Cutoff instant (RFC 3339)"
// @Success      200  {array}  domain.Coupon
// @Failure      400  {object}  map[string]string
// @Router       /customers/coupons/ending-before [get]
func (h *CustomerHandler) CouponsEndingBefore(c echo.Context) error {
	raw := c.QueryParam("date")
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	coupons, err := h.service.CouponsEndingBefore(c.Request().Context(), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}
