package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/janhq/amo-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// RegisterSearchRoutes registers the product and image search endpoints.
func RegisterSearchRoutes(router gin.IRoutes, handler *handlers.SearchHandler) {
	router.POST("/product-search", productSearch(handler))
	router.POST("/search-images", searchImages(handler))
}

// productSearch godoc
// @Summary      Search for products
// @Description  Asks the model for real products matching the criteria. Unparseable model output is returned as a summary with an empty product list and an error field.
// @Tags         Search API
// @Accept       json
// @Produce      json
// @Param        request body requests.ProductSearchRequest true "Search criteria"
// @Success      200 {object} assistant.ProductSearchResult
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /product-search [post]
func productSearch(handler *handlers.SearchHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req requests.ProductSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request format", "e6f8a0b2-4d6f-4e8a-8b0c-2d4e6f8a0b2d")
			return
		}

		result, err := handler.ProductSearch(c.Request.Context(), &req)
		if err != nil {
			responses.HandleError(c, err, "Failed to search for products")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// searchImages godoc
// @Summary      Search product images
// @Description  Returns placeholder product images for the query. A body that cannot be decoded yields a single fallback image.
// @Tags         Search API
// @Accept       json
// @Produce      json
// @Param        request body requests.SearchImagesRequest true "Image query"
// @Success      200 {object} responses.SearchImagesResponse
// @Failure      400 {object} responses.ErrorResponse
// @Router       /search-images [post]
func searchImages(handler *handlers.SearchHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusOK, handler.FallbackImages())
			return
		}

		var req requests.SearchImagesRequest
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusOK, handler.FallbackImages())
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid request format", "f8a0b2c4-6e8a-4f0b-9c2d-4e6f8a0b2c4f")
			return
		}

		c.JSON(http.StatusOK, handler.SearchImages(c.Request.Context(), &req))
	}
}
