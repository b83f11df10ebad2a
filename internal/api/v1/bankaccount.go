package v1

import (
	"net/http"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/gin-gonic/gin"
)

type BankAccountHandler struct {
	service service.BankAccountService
	log     *logger.Logger
}

func NewBankAccountHandler(service service.BankAccountService, log *logger.Logger) *BankAccountHandler {
	return &BankAccountHandler{service: service, log: log}
}

// @Summary Create a bank account
// @Tags Bank Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body dto.CreateBankAccountRequest true "Bank account"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /bank-accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a bank account
// @Tags Bank Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccount(c *gin.Context) {
	resp, err := h.service.GetBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List bank accounts
// @Tags Bank Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListBankAccountsResponse
// @Router /bank-accounts [get]
func (h *BankAccountHandler) GetBankAccounts(c *gin.Context) {
	resp, err := h.service.GetBankAccounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a bank account
// @Tags Bank Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bank account ID"
// @Param account body dto.UpdateBankAccountRequest true "Bank account"
// @Success 200 {object} dto.BankAccountResponse
// @Router /bank-accounts/{id} [put]
func (h *BankAccountHandler) UpdateBankAccount(c *gin.Context) {
	var req dto.UpdateBankAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateBankAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a bank account
// @Tags Bank Accounts
// @Security BearerAuth
// @Param id path string true "Bank account ID"
// @Success 204
// @Router /bank-accounts/{id} [delete]
func (h *BankAccountHandler) DeleteBankAccount(c *gin.Context) {
	if err := h.service.DeleteBankAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Make a bank account the default
// @Tags Bank Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Router /bank-accounts/{id}/default [post]
func (h *BankAccountHandler) SetDefaultBankAccount(c *gin.Context) {
	resp, err := h.service.SetDefaultBankAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
