package ui

import (
	"log"
	"net/http"
	"strconv"

	"toplist/models"
	"toplist/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemHandler serves read access to the item catalog
type ItemHandler struct {
	items ports.ItemRepository
}

// NewItemHandler creates an item handler
func NewItemHandler(items ports.ItemRepository) *ItemHandler {
	return &ItemHandler{items: items}
}

// HandleSearch searches items by category/subcategory/query/year range
func (h *ItemHandler) HandleSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := models.ItemSearchFilters{
			Category:    models.Category(c.Query("category")),
			Subcategory: c.Query("subcategory"),
			SearchQuery: c.Query("q"),
			SortBy:      c.DefaultQuery("sort_by", "name"),
		}
		if v := c.Query("year_from"); v != "" {
			if year, err := strconv.Atoi(v); err == nil {
				filters.YearFrom = &year
			}
		}
		if v := c.Query("year_to"); v != "" {
			if year, err := strconv.Atoi(v); err == nil {
				filters.YearTo = &year
			}
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		items, err := h.items.Search(c.Request.Context(), filters, limit, offset)
		if err != nil {
			log.Printf("[API] Item search failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "item search failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	}
}

// HandleGetByID fetches one item
func (h *ItemHandler) HandleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
			return
		}

		item, err := h.items.GetByID(c.Request.Context(), id)
		if err != nil {
			log.Printf("[API] Item lookup failed for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "item lookup failed"})
			return
		}
		if item == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// HandleGroups lists the distinct groups in use for a category
func (h *ItemHandler) HandleGroups() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := models.Category(c.Param("category"))
		if !category.IsKnown() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}

		groups, err := h.items.GroupsByCategory(c.Request.Context(), category)
		if err != nil {
			log.Printf("[API] Group listing failed for %s: %v", category, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "group listing failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"category": category, "groups": groups})
	}
}
