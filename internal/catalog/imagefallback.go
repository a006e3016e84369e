package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/glowshop/backend/internal/models"
)

const genericKeyword = "beauty cosmetic product"

var keywordsByType = map[string][]string{
	"lipstick":    {"lipstick", "lip color", "lip tint", "lip balm", "lipbalm"},
	"serum":       {"serum", "kumkumadi"},
	"moisturizer": {"moisturizer", "moisturiser", "cream", "body butter", "gel"},
	"shampoo":     {"shampoo"},
	"facewash":    {"facewash", "face wash", "cleanser"},
	"perfume":     {"perfume", "fragrance", "deo", "deostick"},
}

var defaultKeywordByType = map[string]string{
	"lipstick":    "lipstick makeup product",
	"serum":       "facial serum skincare bottle",
	"moisturizer": "moisturizer cream skincare",
	"shampoo":     "shampoo bottle hair care",
	"facewash":    "face wash cleanser skincare",
	"perfume":     "perfume bottle fragrance",
}

// DetectImageType classifies a product by keywords found in its category,
// name and description. Empty string means no match.
func DetectImageType(p models.Product) string {
	haystack := strings.ToLower(strings.Join([]string{p.Category, p.Name, p.Description}, " "))

	for imageType, keywords := range keywordsByType {
		for _, keyword := range keywords {
			if strings.Contains(haystack, keyword) {
				return imageType
			}
		}
	}
	return ""
}

// Seeded placeholder URLs are stable per keyword, no API key needed.
func placeholderURL(keyword string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/600/600", url.QueryEscape(keyword))
}

func DefaultImageURL(p models.Product) string {
	imageType := DetectImageType(p)
	if imageType == "" {
		return placeholderURL(genericKeyword)
	}
	keyword, ok := defaultKeywordByType[imageType]
	if !ok {
		keyword = genericKeyword
	}
	return placeholderURL(keyword)
}

// ResolveImageURL prefers the uploaded image and falls back to a
// keyword-derived placeholder.
func ResolveImageURL(p models.Product) string {
	if uploaded := strings.TrimSpace(p.ImageURL); uploaded != "" {
		return uploaded
	}
	return DefaultImageURL(p)
}
