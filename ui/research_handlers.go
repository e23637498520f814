package ui

import (
	"log"
	"net/http"

	"toplist/app"
	"toplist/internal/errors"
	"toplist/models"

	"github.com/gin-gonic/gin"
)

// ResearchHandler serves the metadata research endpoints
type ResearchHandler struct {
	research   *app.ResearchService
	validation *app.ValidationService
}

// NewResearchHandler creates a research handler
func NewResearchHandler(research *app.ResearchService, validation *app.ValidationService) *ResearchHandler {
	return &ResearchHandler{research: research, validation: validation}
}

// HandleResearch runs the full research pipeline including the duplicate
// gate and the auto-create policy
func (h *ResearchHandler) HandleResearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ItemResearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.ResearchDepth == "" {
			req.ResearchDepth = models.DepthStandard
		}
		if req.DuplicateAction == "" {
			req.DuplicateAction = models.DuplicateReject
		}

		response, err := h.research.ProcessResearchRequest(c.Request.Context(), req)
		if err != nil {
			log.Printf("[API] Research request failed for %s (%s): %v", req.Name, errors.GetCode(err), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to research item metadata"})
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

type validateRequest struct {
	Name            string          `json:"name"`
	Category        models.Category `json:"category"`
	Subcategory     string          `json:"subcategory"`
	CheckDuplicates bool            `json:"check_duplicates"`
}

// HandleValidate runs input validation and an optional duplicate check
// without performing research
func (h *ResearchHandler) HandleValidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		validation := h.validation.ValidateItemRequest(req.Name, req.Category, req.Subcategory)

		response := gin.H{
			"name":              req.Name,
			"category":          req.Category,
			"subcategory":       req.Subcategory,
			"is_valid":          validation.IsValid,
			"validation_errors": validation.Errors,
		}

		if req.CheckDuplicates && validation.IsValid {
			duplicateInfo, err := h.validation.CheckDuplicates(c.Request.Context(), req.Name, req.Category, req.Subcategory)
			if err != nil {
				log.Printf("[API] Duplicate check failed for %s: %v", req.Name, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "duplicate check failed"})
				return
			}
			response["duplicate_info"] = duplicateInfo
		}

		c.JSON(http.StatusOK, response)
	}
}

// HandleQuickValidate returns a heuristic research-success confidence
// estimate; no LLM or web calls beyond availability checks
func (h *ResearchHandler) HandleQuickValidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		category := models.Category(c.Query("category"))
		subcategory := c.Query("subcategory")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		confidence := h.research.QuickValidate(name, category, subcategory)
		c.JSON(http.StatusOK, gin.H{
			"name":        name,
			"category":    category,
			"subcategory": subcategory,
			"confidence":  confidence,
		})
	}
}
