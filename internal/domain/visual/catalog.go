package visual

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const (
	CategoryDefault     = "default"
	CategoryPickleball  = "pickleball"
	CategoryCouch       = "couch"
	CategoryStroller    = "stroller"
	CategoryBabyCarSeat = "baby-carseat"
	CategoryCarSeat     = "carseat"
	CategoryLaptop      = "laptop"

	productPlaceholder = "{product}"
)

// Catalog holds the static visual content keyed by category.
type Catalog struct {
	Canvas          map[string]Content          `yaml:"canvas"`
	Guides          map[string]Content          `yaml:"guides"`
	Voice           map[string]Content          `yaml:"voice"`
	Recommendations map[string][]Recommendation `yaml:"recommendations"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded catalog, parsed once.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(catalogYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot recover from a
// broken embedded file.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a YAML catalog and resolves inline SVG images to
// data URLs.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse visual catalog: %w", err)
	}
	if _, ok := c.Canvas[CategoryDefault]; !ok {
		return nil, fmt.Errorf("visual catalog has no %q canvas entry", CategoryDefault)
	}
	if _, ok := c.Voice["landing"]; !ok {
		return nil, fmt.Errorf("visual catalog has no landing voice entry")
	}

	for _, set := range []map[string]Content{c.Canvas, c.Guides, c.Voice} {
		for key, content := range set {
			for i := range content.Items {
				if content.Items[i].SVG != "" && content.Items[i].Image == "" {
					content.Items[i].Image = SVGDataURL(content.Items[i].SVG)
				}
			}
			set[key] = content
		}
	}
	return &c, nil
}

// SVGDataURL wraps SVG markup in a data URL usable as an image source.
func SVGDataURL(svg string) string {
	return "data:image/svg+xml," + url.PathEscape(strings.TrimSpace(svg))
}

// CanvasContent returns the canvas content for a category, falling back to
// the default showcase.
func (c *Catalog) CanvasContent(category string) Content {
	if content, ok := c.Canvas[category]; ok {
		return cloneContent(content)
	}
	return cloneContent(c.Canvas[CategoryDefault])
}

// Landing returns the welcome content shown before any product is named.
func (c *Catalog) Landing() Content {
	return cloneContent(c.Voice["landing"])
}

// Guide returns a detailed buying guide by key.
func (c *Catalog) Guide(key string) (Content, bool) {
	content, ok := c.Guides[key]
	if !ok {
		return Content{}, false
	}
	return cloneContent(content), true
}

// VoiceContent builds the content for a voice detection. Categories without
// dedicated content get the generic image with the product name filled in.
func (c *Catalog) VoiceContent(category, title, productName string) Content {
	content, ok := c.Voice[category]
	if !ok || category == "landing" || category == "generic" {
		content = c.Voice["generic"]
	}
	out := cloneContent(content)
	out.Title = title
	out.Category = category
	out.Description = strings.ReplaceAll(out.Description, productPlaceholder, productName)
	return out
}

// VoiceRecommendations returns the product cards for a voice detection.
func (c *Catalog) VoiceRecommendations(category, productName string) []Recommendation {
	recs, ok := c.Recommendations[category]
	if !ok {
		recs = c.Recommendations["generic"]
	}
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		r.Name = strings.ReplaceAll(r.Name, productPlaceholder, productName)
		out[i] = r
	}
	return out
}

// Lookup returns content by category from any section, canvas first.
func (c *Catalog) Lookup(category string) (Content, bool) {
	if content, ok := c.Canvas[category]; ok {
		return cloneContent(content), true
	}
	if content, ok := c.Guides[category]; ok {
		return cloneContent(content), true
	}
	if category == "landing" {
		return c.Landing(), true
	}
	return Content{}, false
}

func cloneContent(in Content) Content {
	out := in
	if in.Items != nil {
		out.Items = make([]Item, len(in.Items))
		for i, item := range in.Items {
			item.Features = append([]string(nil), item.Features...)
			out.Items[i] = item
		}
	}
	if in.Images != nil {
		out.Images = append([]Image(nil), in.Images...)
	}
	return out
}
