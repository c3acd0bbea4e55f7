package visual

import (
	"context"
	"strings"

	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// Service exposes catalog lookups and keyword detection to the HTTP layer.
type Service struct {
	catalog *Catalog
	canvas  Detector
	voice   Detector
}

// NewService wires the detectors to a catalog.
func NewService(catalog *Catalog) *Service {
	return &Service{
		catalog: catalog,
		canvas:  NewCanvasDetector(catalog),
		voice:   NewVoiceDetector(catalog),
	}
}

// Catalog returns the backing catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Detect classifies the conversation. An empty mode means canvas. In voice
// mode a miss yields the landing content with an empty category.
func (s *Service) Detect(ctx context.Context, messages []string, mode Mode) (Detection, error) {
	if mode == "" {
		mode = ModeCanvas
	}
	if !mode.Valid() {
		return Detection{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"mode must be one of: canvas, voice", nil, "5f0e8f3c-7a1d-4a53-9c0b-3d7f1f0e2a41")
	}

	detector := s.canvas
	if mode == ModeVoice {
		detector = s.voice
	}

	det, ok := detector.Detect(messages)
	if !ok {
		landing := s.catalog.Landing()
		return Detection{Content: &landing}, nil
	}
	return det, nil
}

// Content returns catalog content by category.
func (s *Service) Content(ctx context.Context, category string) (Content, error) {
	content, ok := s.catalog.Lookup(strings.ToLower(strings.TrimSpace(category)))
	if !ok {
		return Content{}, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"visual category not found: "+category, nil, "a4b8d2c6-1e3f-4d7a-8b9c-0e1f2a3b4c5d")
	}
	return content, nil
}

// SearchImages returns placeholder images for a product query.
func (s *Service) SearchImages(ctx context.Context, query, productType string) ([]Image, string) {
	return MockImages(query), SearchQuery(query, productType)
}
