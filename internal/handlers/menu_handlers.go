package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler exposes the read-side catalog.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new instance of MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// GetMenuItems handles GET /menu/items, with optional category and
// available_only filters.
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondValidationFailed(c, "invalid category id")
			return
		}
		categoryID = &id
	}
	availableOnly := c.Query("available_only") == "true"

	items, err := h.menuService.GetMenuItems(categoryID, availableOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, items)
}

// GetMenuItem handles GET /menu/items/:id.
func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid menu item id")
		return
	}

	item, err := h.menuService.GetMenuItemByID(itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, item)
}

// GetCategories handles GET /menu/categories.
func (h *MenuHandler) GetCategories(c *gin.Context) {
	categories, err := h.menuService.GetCategories()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, categories)
}
