package visual

// Kind tags which fields of a Content are meaningful.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindExample  Kind = "example"
	KindSearch   Kind = "search"
	KindShowcase Kind = "showcase"
)

// Content is the supplementary visual shown next to the conversation.
// Src is set for image and video content, Items for example and showcase
// content, Images and SearchQuery for search content.
type Content struct {
	Kind        Kind    `json:"type" yaml:"type"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Category    string  `json:"category,omitempty" yaml:"category"`
	Src         string  `json:"src,omitempty" yaml:"src"`
	Items       []Item  `json:"items,omitempty" yaml:"items"`
	Images      []Image `json:"images,omitempty" yaml:"images"`
	SearchQuery string  `json:"searchQuery,omitempty" yaml:"searchQuery"`
}

// Item is one product type card inside example or showcase content.
type Item struct {
	Name        string   `json:"name" yaml:"name"`
	Image       string   `json:"image" yaml:"image"`
	SVG         string   `json:"-" yaml:"svg"`
	Features    []string `json:"features" yaml:"features"`
	PriceRange  string   `json:"priceRange" yaml:"priceRange"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// Image is a single search result image.
type Image struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Recommendation is a product card suggested alongside voice content.
type Recommendation struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Image       string  `json:"image" yaml:"image"`
	Price       string  `json:"price" yaml:"price"`
	Rating      float64 `json:"rating" yaml:"rating"`
	KeyFeature  string  `json:"keyFeature" yaml:"keyFeature"`
	MatchReason string  `json:"matchReason" yaml:"matchReason"`
}

// Mode selects which keyword table drives detection.
type Mode string

const (
	// ModeCanvas rescans the whole conversation and always yields content,
	// falling back to the default showcase.
	ModeCanvas Mode = "canvas"
	// ModeVoice inspects the latest utterance with the extended product
	// table and keeps the current content when nothing matches.
	ModeVoice Mode = "voice"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCanvas || m == ModeVoice
}

// Detection is the outcome of classifying conversation text.
type Detection struct {
	Category        string           `json:"category"`
	Title           string           `json:"title,omitempty"`
	ProductName     string           `json:"productName,omitempty"`
	Content         *Content         `json:"content,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}
