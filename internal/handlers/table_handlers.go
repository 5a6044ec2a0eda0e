package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler exposes seating map management.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new instance of TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// CreateTable handles POST /tables.
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.CreateTable(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusCreated, "Table created", table)
}

// GetTables handles GET /tables. Each table carries its active orders.
func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, tables)
}

// GetTable handles GET /tables/:id.
func (h *TableHandler) GetTable(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	table, err := h.tableService.GetTableByID(tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, table)
}

// UpdateTable handles PUT /tables/:id.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	var req services.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.UpdateTable(tableID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Table updated", table)
}

type updateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTableStatus handles PUT /tables/:id/status, the manual
// available/unavailable toggle.
func (h *TableHandler) UpdateTableStatus(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	var req updateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.UpdateTableStatus(tableID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable handles DELETE /tables/:id.
func (h *TableHandler) DeleteTable(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	if err := h.tableService.DeleteTable(tableID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Table deleted", nil)
}
