package visual

import (
	"strings"
	"sync"
)

// Detector turns conversation text into a visual detection. The boolean
// result is false when the current content should be kept.
type Detector interface {
	Detect(messages []string) (Detection, bool)
}

// CanvasDetector scans the whole conversation with CanvasRules. It always
// produces content.
type CanvasDetector struct {
	catalog *Catalog
}

func NewCanvasDetector(catalog *Catalog) *CanvasDetector {
	return &CanvasDetector{catalog: catalog}
}

func (d *CanvasDetector) Detect(messages []string) (Detection, bool) {
	category := DetectCategory(messages)
	content := d.catalog.CanvasContent(category)
	return Detection{Category: category, Title: content.Title, Content: &content}, true
}

// VoiceDetector looks at the latest utterance with VoiceRules.
type VoiceDetector struct {
	catalog *Catalog
}

func NewVoiceDetector(catalog *Catalog) *VoiceDetector {
	return &VoiceDetector{catalog: catalog}
}

// Detect classifies the last message. A baby car seat match only carries
// recommendations; its guide is published by the GuideTrigger.
func (d *VoiceDetector) Detect(messages []string) (Detection, bool) {
	if len(messages) == 0 {
		return Detection{}, false
	}
	match, ok := voiceClassifier.Classify(messages[len(messages)-1])
	if !ok {
		return Detection{}, false
	}

	det := Detection{
		Category:        match.Category,
		Title:           match.Title,
		ProductName:     match.Keyword,
		Recommendations: d.catalog.VoiceRecommendations(match.Category, match.Keyword),
	}
	if match.Category != CategoryBabyCarSeat {
		content := d.catalog.VoiceContent(match.Category, match.Title, match.Keyword)
		det.Content = &content
	}
	return det, true
}

// NewDetector returns the detector for a mode, defaulting to canvas.
func NewDetector(mode Mode, catalog *Catalog) Detector {
	if mode == ModeVoice {
		return NewVoiceDetector(catalog)
	}
	return NewCanvasDetector(catalog)
}

// Selector tracks the visual content for one conversation. Content is only
// replaced when the detected category differs from the current one, and it
// is replaced wholesale.
type Selector struct {
	mu              sync.Mutex
	detector        Detector
	initial         Content
	current         Content
	recommendations []Recommendation
}

func NewSelector(detector Detector, initial Content) *Selector {
	return &Selector{
		detector: detector,
		initial:  initial,
		current:  cloneContent(initial),
	}
}

// Observe rescans the conversation. It returns the content now selected and
// whether it changed.
func (s *Selector) Observe(messages []string) (Content, bool) {
	det, ok := s.detector.Detect(messages)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		return cloneContent(s.current), false
	}
	if len(det.Recommendations) > 0 {
		s.recommendations = det.Recommendations
	}
	if det.Content == nil || sameCategory(det.Content.Category, s.current.Category) {
		return cloneContent(s.current), false
	}
	s.current = cloneContent(*det.Content)
	return cloneContent(s.current), true
}

// Replace forces content, used when a guide is published.
func (s *Selector) Replace(content Content) {
	s.mu.Lock()
	s.current = cloneContent(content)
	s.mu.Unlock()
}

// Current returns the selected content.
func (s *Selector) Current() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneContent(s.current)
}

// Recommendations returns the product cards of the latest detection.
func (s *Selector) Recommendations() []Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recommendation(nil), s.recommendations...)
}

// Reset returns to the initial content for a new conversation.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.current = cloneContent(s.initial)
	s.recommendations = nil
	s.mu.Unlock()
}

func sameCategory(a, b string) bool {
	// Initial canvas content is tagged "default" while landing content has no
	// category at all.
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
