package v1

import (
	"net/http"

	"github.com/flexprice/gstbill/internal/api/dto"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/flexprice/gstbill/internal/types"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	service service.ItemService
	log     *logger.Logger
}

func NewItemHandler(service service.ItemService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create an item
// @Description Create an inventory item. Item code and part number are generated when omitted.
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body dto.CreateItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an item
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	resp, err := h.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get items
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param filter query types.ItemFilter false "Filter"
// @Success 200 {object} dto.ListItemsResponse
// @Router /items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	var filter types.ItemFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.QueryFilter = defaultQuery(filter.QueryFilter)

	resp, err := h.service.GetItems(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update an item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param item body dto.UpdateItemRequest true "Item"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete an item
// @Tags Items
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 204
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Adjust stock
// @Description Add to or remove from the stock of an item
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body dto.AdjustStockRequest true "Stock adjustment"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /items/{id}/stock [post]
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AdjustStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Import items
// @Tags Items
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /items/import [post]
func (h *ItemHandler) ImportItems(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}

	resp, err := h.service.ImportItems(c.Request.Context(), data)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
