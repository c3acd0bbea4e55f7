package assistant

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const parseFailureMessage = "Could not parse product data"

var priceNumber = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice extracts the first amount from a display price such as
// "$1,299.99" or "From $99".
func ParsePrice(s string) (decimal.Decimal, bool) {
	m := priceNumber.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseProductSearch decodes the model output. Output wrapped in a markdown
// code fence is accepted; anything else that fails to decode becomes the
// structured fallback with the raw text as the summary.
func parseProductSearch(raw string) ProductSearchResult {
	var result ProductSearchResult
	if err := json.Unmarshal([]byte(raw), &result); err == nil {
		return result
	}
	if unfenced, ok := stripCodeFence(raw); ok {
		if err := json.Unmarshal([]byte(unfenced), &result); err == nil {
			return result
		}
	}
	return ProductSearchResult{
		Products:      []Product{},
		SearchSummary: raw,
		Error:         parseFailureMessage,
	}
}

func stripCodeFence(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return "", false
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s), true
}

// filterProducts drops unnamed products and, when maxPrice is set, products
// whose price parses above it. Products with unparseable prices are kept.
func filterProducts(products []Product, maxPrice *decimal.Decimal) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if maxPrice != nil {
			if price, ok := ParsePrice(p.Price); ok && price.GreaterThan(*maxPrice) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
