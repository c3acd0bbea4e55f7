package handlers

import (
	"context"

	"github.com/janhq/amo-server/internal/domain/visual"
	"github.com/janhq/amo-server/internal/infrastructure/metrics"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
)

// VisualHandler serves keyword-driven visual content.
type VisualHandler struct {
	service *visual.Service
}

// NewVisualHandler creates a new visual handler.
func NewVisualHandler(service *visual.Service) *VisualHandler {
	return &VisualHandler{service: service}
}

// Detect selects content for the conversation text.
func (h *VisualHandler) Detect(ctx context.Context, req *requests.DetectVisualRequest) (*visual.Detection, error) {
	det, err := h.service.Detect(ctx, req.Messages, visual.Mode(req.Mode))
	if err != nil {
		return nil, err
	}
	category := det.Category
	if category == "" {
		category = "none"
	}
	metrics.RecordVisualDetection(category)
	return &det, nil
}

// Content returns catalog content by category.
func (h *VisualHandler) Content(ctx context.Context, category string) (*visual.Content, error) {
	content, err := h.service.Content(ctx, category)
	if err != nil {
		return nil, err
	}
	return &content, nil
}
