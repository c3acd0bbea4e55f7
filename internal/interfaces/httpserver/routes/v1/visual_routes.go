package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// RegisterVisualRoutes registers visual content detection and lookup.
func RegisterVisualRoutes(router gin.IRoutes, handler *handlers.VisualHandler) {
	router.POST("/visuals/detect", detectVisual(handler))
	router.GET("/visuals/:category", getVisual(handler))
}

// detectVisual godoc
// @Summary      Detect visual content
// @Description  Classifies conversation text by product keywords and returns the matching visual content. Canvas mode scans every message; voice mode uses the extended product table on the latest message.
// @Tags         Visual API
// @Accept       json
// @Produce      json
// @Param        request body requests.DetectVisualRequest true "Conversation text"
// @Success      200 {object} visual.Detection
// @Failure      400 {object} responses.ErrorResponse
// @Router       /visuals/detect [post]
func detectVisual(handler *handlers.VisualHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.DetectVisualRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Messages array is required", "1c3e5a7b-9d0f-4b2c-8e4f-6a8b0c2d4e61")
			return
		}

		det, err := handler.Detect(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Failed to detect visual content")
			return
		}

		c.JSON(http.StatusOK, det)
	}
}

// getVisual godoc
// @Summary      Get visual content
// @Description  Returns the catalog content for a product category.
// @Tags         Visual API
// @Produce      json
// @Param        category path string true "Category, e.g. stroller"
// @Success      200 {object} visual.Content
// @Failure      404 {object} responses.ErrorResponse
// @Router       /visuals/{category} [get]
func getVisual(handler *handlers.VisualHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := handler.Content(c.Request.Context(), c.Param("category"))
		if err != nil {
			responses.HandleError(c, err, "Failed to get visual content")
			return
		}

		c.JSON(http.StatusOK, content)
	}
}
