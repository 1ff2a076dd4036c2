package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// CompanyHandler exposes the logged-in company's profile and coupon
// management. The acting company id always comes from the session.
type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// @Summary      Get the logged-in company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Company
// @Router       /companies/me [get]
func (h *CompanyHandler) Me(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	company, err := h.service.GetCompany(c.Request().Context(), companyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// UpdateMe updates the logged-in company's profile. An empty password keeps
// the current credential.
//
// @Summary      Update the logged-in company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company details"
// @Success      200   {object}  domain.Company
// @Failure      400   {object}  map[string]string
// @Router       /companies/me [put]
func (h *CompanyHandler) UpdateMe(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	company, err := h.service.UpdateCompany(c.Request().Context(), companyID, ports.UpdateCompanyInput{
		ID:       companyID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// SaveCoupon creates a coupon owned by the logged-in company.
//
// @Summary      Create a coupon
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      couponRequest  true  "Coupon details"
// @Success      201   {object}  domain.Coupon
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /companies/coupons [post]
func (h *CompanyHandler) SaveCoupon(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	coupon, err := h.service.SaveCoupon(c.Request().Context(), companyID, toCouponInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, coupon)
}

// UpdateCoupon replaces a coupon the logged-in company owns.
//
// @Summary      Update a coupon
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Coupon id"
// @Param        body  body      couponRequest  true  "Coupon details"
// @Success      200   {object}  domain.Coupon
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /companies/coupons/{id} [put]
func (h *CompanyHandler) UpdateCoupon(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	couponID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	coupon, err := h.service.UpdateCoupon(c.Request().Context(), companyID, couponID, toCouponInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// DeleteCoupon removes a coupon the logged-in company owns, together with its
// purchase records.
//
// @Summary      Delete a coupon
// @Tags         companies
// @Security     BearerAuth
// @Param        id  path  int  true  "Coupon id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /companies/coupons/{id} [delete]
func (h *CompanyHandler) DeleteCoupon(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	couponID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCoupon(c.Request().Context(), companyID, couponID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Get a coupon
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Coupon id"
// @Success      200  {object}  domain.Coupon
// @Failure      404  {object}  map[string]string
// @Router       /companies/coupons/{id} [get]
func (h *CompanyHandler) GetCoupon(c echo.Context) error {
	couponID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	coupon, err := h.service.GetCoupon(c.Request().Context(), couponID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// ListCoupons lists the logged-in company's coupons, best sellers first.
// Optional filters narrow the result: category, max_price (exclusive) and
// ending_before (RFC 3339). Filters are mutually exclusive; the first one
// present wins.
//
// @Summary      List the company's coupons
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        category       query     int     false  "Filter by category"
// @Param        max_price      query     number  false  "Filter by price strictly below"
// @Param        ending_before  query     string  false  "Filter by end date before (RFC 3339)"
// @Success      200  {array}  domain.Coupon
// @Failure      400  {object}  map[string]string
// @Router       /companies/coupons [get]
func (h *CompanyHandler) ListCoupons(c echo.Context) error {
	companyID, err := ctxSubjectID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if raw := c.QueryParam("category"); raw != "" {
		category, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		coupons, err := h.service.ListCouponsByCategory(ctx, companyID, category)
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
		coupons, err := h.service.ListCouponsPriceBelow(ctx, companyID, price)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, coupons)
	}

	if raw := c.QueryParam("ending_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid ending_before")
		}
		coupons, err := h.service.ListCouponsEndingBefore(ctx, companyID, t)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, coupons)
	}

	coupons, err := h.service.ListCoupons(ctx, companyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}
