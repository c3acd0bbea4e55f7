package visual

import (
	"strings"
)

// Rule maps a set of keywords to a category. Rules are evaluated in order
// and the first keyword contained in the text wins.
type Rule struct {
	Category string
	Title    string
	Keywords []string
}

// Match is a successful rule evaluation.
type Match struct {
	Category string
	Title    string
	Keyword  string
}

// CanvasRules drive the text-chat canvas. Matching is done on the whole
// conversation.
var CanvasRules = []Rule{
	{Category: CategoryPickleball, Keywords: []string{"pickleball", "paddle"}},
	{Category: CategoryCouch, Keywords: []string{"couch", "sofa", "furniture", "living room"}},
	{Category: CategoryStroller, Keywords: []string{"stroller", "baby", "infant", "toddler"}},
}

// VoiceRules drive voice sessions. Baby car seats are checked before
// everything else so "baby car seat" does not fall into the stroller or
// generic car seat buckets.
var VoiceRules = []Rule{
	{Category: CategoryBabyCarSeat, Title: "Baby Car Seats Buying Guide", Keywords: []string{"baby car seat", "baby car seats"}},
	{Category: CategoryCarSeat, Title: "Car Seat Safety Guide", Keywords: []string{"car seat", "infant car seat", "convertible car seat", "booster seat"}},
	{Category: CategoryLaptop, Title: "Laptop Shopping Guide", Keywords: []string{"laptop", "computer", "notebook", "macbook", "pc"}},
	{Category: "smartphone", Title: "Smartphone Selection", Keywords: []string{"phone", "smartphone", "iphone", "android", "mobile"}},
	{Category: "car", Title: "Car Buying Guide", Keywords: []string{"car", "vehicle", "auto", "sedan", "suv", "truck"}},
	{Category: CategoryCouch, Title: "Couch Selection Guide", Keywords: []string{"couch", "sofa", "sectional", "furniture", "loveseat"}},
	{Category: CategoryStroller, Title: "Stroller Buying Guide", Keywords: []string{"stroller", "baby stroller", "pram", "pushchair"}},
	{Category: "camera", Title: "Camera Selection Guide", Keywords: []string{"camera", "dslr", "mirrorless", "photography"}},
	{Category: "mattress", Title: "Mattress Buying Guide", Keywords: []string{"mattress", "bed", "sleep", "memory foam"}},
	{Category: "bike", Title: "Bike Selection Guide", Keywords: []string{"bike", "bicycle", "cycling", "road bike", "mountain bike"}},
	{Category: "audio", Title: "Audio Equipment Guide", Keywords: []string{"headphones", "earbuds", "audio", "speakers"}},
	{Category: "tv", Title: "TV Selection Guide", Keywords: []string{"tv", "television", "monitor", "display", "4k", "smart tv"}},
	{Category: "tablet", Title: "Tablet Buying Guide", Keywords: []string{"tablet", "ipad", "android tablet"}},
	{Category: "watch", Title: "Watch Selection Guide", Keywords: []string{"watch", "smartwatch", "apple watch", "fitness tracker"}},
	{Category: "shoes", Title: "Shoe Selection Guide", Keywords: []string{"shoes", "sneakers", "running shoes", "boots"}},
	{Category: "appliance", Title: "Appliance Buying Guide", Keywords: []string{"refrigerator", "fridge", "appliance", "kitchen"}},
}

// Classifier evaluates an ordered rule list against free text.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier; keywords are lowercased once here.
func NewClassifier(rules []Rule) *Classifier {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		normalized[i] = Rule{Category: r.Category, Title: r.Title, Keywords: kw}
	}
	return &Classifier{rules: normalized}
}

// Classify returns the first rule with a keyword contained in text.
// Matching is a case-insensitive substring test.
func (c *Classifier) Classify(text string) (Match, bool) {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return Match{Category: r.Category, Title: r.Title, Keyword: kw}, true
			}
		}
	}
	return Match{}, false
}

// DetectCategory joins the messages and classifies them with the canvas
// rules, returning "default" when nothing matches.
func DetectCategory(messages []string) string {
	m, ok := canvasClassifier.Classify(strings.Join(messages, " "))
	if !ok {
		return CategoryDefault
	}
	return m.Category
}

var (
	canvasClassifier = NewClassifier(CanvasRules)
	voiceClassifier  = NewClassifier(VoiceRules)
)

// MentionsCarSeat reports whether text talks about a child car seat.
func MentionsCarSeat(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "car seat") ||
		strings.Contains(lower, "baby seat") ||
		strings.Contains(lower, "infant seat") ||
		strings.Contains(lower, "carseat") ||
		(strings.Contains(lower, "baby") && strings.Contains(lower, "seat"))
}
