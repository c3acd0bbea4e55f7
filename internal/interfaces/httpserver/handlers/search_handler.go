package handlers

import (
	"context"

	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
)

// SearchHandler serves product and image search.
type SearchHandler struct {
	assistant assistant.Service
	visual    *visual.Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(assistantService assistant.Service, visualService *visual.Service) *SearchHandler {
	return &SearchHandler{assistant: assistantService, visual: visualService}
}

// ProductSearch asks the model for products matching the criteria.
func (h *SearchHandler) ProductSearch(ctx context.Context, req *requests.ProductSearchRequest) (*assistant.ProductSearchResult, error) {
	return h.assistant.ProductSearch(ctx, assistant.ProductSearchRequest{
		Criteria: req.Criteria,
		MaxPrice: req.MaxPrice,
	})
}

// SearchImages returns placeholder images for the query.
func (h *SearchHandler) SearchImages(ctx context.Context, req *requests.SearchImagesRequest) *responses.SearchImagesResponse {
	images, query := h.visual.SearchImages(ctx, req.Query, req.ProductType)
	return &responses.SearchImagesResponse{Images: images, SearchQuery: query}
}

// FallbackImages is returned when a search request cannot be read.
func (h *SearchHandler) FallbackImages() *responses.SearchImagesResponse {
	return &responses.SearchImagesResponse{Images: visual.FallbackImages()}
}
