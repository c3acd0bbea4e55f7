package visual

import (
	"fmt"
	"html"
	"strings"
)

const (
	beginnerPaddleSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f8fafc"/>
  <ellipse cx="200" cy="120" rx="80" ry="100" fill="#3b82f6"/>
  <rect x="170" y="220" width="60" height="60" fill="#374151"/>
  <text x="200" y="260" font-family="Arial" font-size="10" fill="white" text-anchor="middle">GRIP</text>
  <text x="200" y="40" font-family="Arial" font-size="14" fill="#374151" text-anchor="middle">Beginner Paddle</text>
  <text x="200" y="290" font-family="Arial" font-size="10" fill="#6b7280" text-anchor="middle">Lightweight • Large Sweet Spot</text>
</svg>`

	advancedPaddleSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f8fafc"/>
  <ellipse cx="200" cy="120" rx="75" ry="95" fill="#dc2626"/>
  <rect x="175" y="215" width="50" height="65" fill="#1f2937"/>
  <text x="200" y="250" font-family="Arial" font-size="9" fill="white" text-anchor="middle">PRO</text>
  <text x="200" y="40" font-family="Arial" font-size="14" fill="#374151" text-anchor="middle">Advanced Paddle</text>
  <text x="200" y="290" font-family="Arial" font-size="10" fill="#6b7280" text-anchor="middle">Carbon Fiber • Maximum Control</text>
</svg>`

	premiumSVGFormat = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%%" height="100%%" fill="#f3f4f6"/>
  <circle cx="200" cy="150" r="60" fill="#3b82f6"/>
  <text x="200" y="80" font-family="Arial" font-size="16" fill="#374151" text-anchor="middle">%s Product</text>
  <text x="200" y="240" font-family="Arial" font-size="12" fill="#6b7280" text-anchor="middle">High Quality Option</text>
</svg>`

	budgetSVGFormat = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%%" height="100%%" fill="#f9fafb"/>
  <rect x="120" y="100" width="160" height="100" fill="#10b981" rx="10"/>
  <text x="200" y="80" font-family="Arial" font-size="16" fill="#374151" text-anchor="middle">%s Budget</text>
  <text x="200" y="155" font-family="Arial" font-size="14" fill="white" text-anchor="middle">BUDGET</text>
  <text x="200" y="240" font-family="Arial" font-size="12" fill="#6b7280" text-anchor="middle">Great Value Choice</text>
</svg>`

	searchErrorSVG = `<svg width="400" height="300" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#fee2e2"/>
  <text x="50%" y="50%" font-family="Arial" font-size="14" fill="#dc2626" text-anchor="middle">Search temporarily unavailable</text>
</svg>`
)

// SearchQuery builds the descriptive query a real image search would use.
func SearchQuery(query, productType string) string {
	if productType != "" {
		return fmt.Sprintf("%s %s product review comparison", query, productType)
	}
	return query + " product review comparison"
}

// MockImages returns placeholder product images for a query. Paddle queries
// get a beginner/advanced pair, everything else a premium/budget pair.
func MockImages(query string) []Image {
	lower := strings.ToLower(query)
	if strings.Contains(lower, "pickleball") || strings.Contains(lower, "paddle") {
		return []Image{
			{
				URL:         SVGDataURL(beginnerPaddleSVG),
				Title:       "Beginner Pickleball Paddle",
				Description: "Lightweight design perfect for new players",
			},
			{
				URL:         SVGDataURL(advancedPaddleSVG),
				Title:       "Advanced Pickleball Paddle",
				Description: "Professional-grade carbon fiber construction",
			},
		}
	}

	label := html.EscapeString(firstWord(query))
	return []Image{
		{
			URL:         SVGDataURL(fmt.Sprintf(premiumSVGFormat, label)),
			Title:       query + " - Premium Option",
			Description: fmt.Sprintf("High-quality %s for serious users", query),
		},
		{
			URL:         SVGDataURL(fmt.Sprintf(budgetSVGFormat, label)),
			Title:       query + " - Budget Option",
			Description: fmt.Sprintf("Affordable %s with good features", query),
		},
	}
}

// FallbackImages is returned when image generation fails.
func FallbackImages() []Image {
	return []Image{{
		URL:         SVGDataURL(searchErrorSVG),
		Title:       "Search Error",
		Description: "Image search temporarily unavailable",
	}}
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
