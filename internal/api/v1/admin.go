package v1

import (
	"context"
	"net/http"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service service.AdminService
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{service: service, log: log}
}

// @Summary Admin login
// @Description Sign in as the platform administrator
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Failure 429 {object} ierr.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List tenants
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param filter query types.TenantFilter false "Filter"
// @Success 200 {object} dto.ListTenantsResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /admin/tenants [get]
func (h *AdminHandler) ListTenants(c *gin.Context) {
	var filter types.TenantFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.QueryFilter = defaultQuery(filter.QueryFilter)

	resp, err := h.service.ListTenants(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/tenants/{id} [get]
func (h *AdminHandler) GetTenant(c *gin.Context) {
	resp, err := h.service.GetTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Lock a tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/tenants/{id}/lock [post]
func (h *AdminHandler) LockTenant(c *gin.Context) {
	h.flag(c, h.service.LockTenant)
}

// @Summary Unlock a tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id}/unlock [post]
func (h *AdminHandler) UnlockTenant(c *gin.Context) {
	h.flag(c, h.service.UnlockTenant)
}

// @Summary Suspend a tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id}/suspend [post]
func (h *AdminHandler) SuspendTenant(c *gin.Context) {
	h.flag(c, h.service.SuspendTenant)
}

// @Summary Unsuspend a tenant
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Router /admin/tenants/{id}/unsuspend [post]
func (h *AdminHandler) UnsuspendTenant(c *gin.Context) {
	h.flag(c, h.service.UnsuspendTenant)
}

func (h *AdminHandler) flag(c *gin.Context, fn func(context.Context, string) (*dto.TenantResponse, error)) {
	resp, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a tenant
// @Description Delete a tenant together with every record it owns
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tenant ID"
// @Success 200 {object} dto.DeleteTenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/tenants/{id} [delete]
func (h *AdminHandler) DeleteTenant(c *gin.Context) {
	resp, err := h.service.DeleteTenant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Platform dashboard
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
