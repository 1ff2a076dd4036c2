package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// AdminHandler exposes the administrator's company and customer management.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// SaveCompany creates a company account.
//
// @Summary      Create a company
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company details"
// @Success      201   {object}  domain.Company
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/companies [post]
func (h *AdminHandler) SaveCompany(c echo.Context) error {
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	company, err := h.service.SaveCompany(c.Request().Context(), ports.SaveCompanyInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

// UpdateCompany updates a company account. An empty password keeps the
// current credential.
//
// @Summary      Update a company
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Company id"
// @Param        body  body      companyRequest  true  "Company details"
// @Success      200   {object}  domain.Company
// @Failure      404   {object}  map[string]string
// @Router       /admin/companies/{id} [put]
func (h *AdminHandler) UpdateCompany(c echo.Context) error {
	id, err := pathID(c, "id")
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

	company, err := h.service.UpdateCompany(c.Request().Context(), ports.UpdateCompanyInput{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// DeleteCompany removes a company together with its coupons and their
// purchase records.
//
// @Summary      Delete a company
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Company id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/companies/{id} [delete]
func (h *AdminHandler) DeleteCompany(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCompany(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Get a company
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Company id"
// @Success      200  {object}  domain.Company
// @Failure      404  {object}  map[string]string
// @Router       /admin/companies/{id} [get]
func (h *AdminHandler) GetCompany(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	company, err := h.service.GetCompany(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// @Summary      List all companies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Company
// @Router       /admin/companies [get]
func (h *AdminHandler) ListCompanies(c echo.Context) error {
	companies, err := h.service.ListCompanies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companies)
}

// SaveCustomer creates a customer account.
//
// @Summary      Create a customer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      201   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/customers [post]
func (h *AdminHandler) SaveCustomer(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	customer, err := h.service.SaveCustomer(c.Request().Context(), ports.SaveCustomerInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer updates a customer account. An empty password keeps the
// current credential.
//
// @Summary      Update a customer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Customer id"
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      200   {object}  domain.Customer
// @Failure      404   {object}  map[string]string
// @Router       /admin/customers/{id} [put]
func (h *AdminHandler) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
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

	customer, err := h.service.UpdateCustomer(c.Request().Context(), ports.UpdateCustomerInput{
		ID:       id,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer together with their purchase records.
//
// @Summary      Delete a customer
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Customer id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/customers/{id} [delete]
func (h *AdminHandler) DeleteCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCustomer(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Get a customer
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Customer id"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  map[string]string
// @Router       /admin/customers/{id} [get]
func (h *AdminHandler) GetCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.service.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// @Summary      List all customers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Customer
// @Router       /admin/customers [get]
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	customers, err := h.service.ListCustomers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}
