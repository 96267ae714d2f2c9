// Package product turns loosely typed product payloads returned by the
// assistant service into display records.
//
// Only the ASIN and title are guaranteed; every other field may be missing,
// null or of an unexpected shape and degrades to absent instead of failing
// the record.
package product

import (
	"fmt"
	"net/url"
	"strings"
)

// CurrencyGlyph is prefixed to prices that do not already carry it.
const CurrencyGlyph = "$"

// DeepLinkTemplate is the external product page for an ASIN.
const DeepLinkTemplate = "https://www.amazon.com/dp/%s"

// Product is a normalized product record.
type Product struct {
	ASIN  string `json:"asin"`
	Title string `json:"title"`

	Brand        *string  `json:"brand,omitempty"`
	Price        *string  `json:"price,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	RatingCount  *string  `json:"rating_count,omitempty"`
	Availability *string  `json:"availability,omitempty"`
	Description  *string  `json:"product_description,omitempty"`
	Info         *string  `json:"info,omitempty"`
	ReturnPolicy *string  `json:"return_policy,omitempty"`

	// ImageURL is the first resolvable image, empty when none resolved.
	ImageURL string `json:"image_url,omitempty"`
}

// DisplayImageURL returns the image to show and false when a placeholder
// should be rendered instead.
func (p Product) DisplayImageURL() (string, bool) {
	if p.ImageURL == "" {
		return "", false
	}
	return p.ImageURL, true
}

// FullSizeImageURL returns DisplayImageURL with the retailer's thumbnail
// size suffix removed, e.g. "https://m.media-amazon.com/images/I/71x._AC_US40_.jpg"
// becomes "https://m.media-amazon.com/images/I/71x.jpg".
func (p Product) FullSizeImageURL() (string, bool) {
	u, ok := p.DisplayImageURL()
	if !ok {
		return "", false
	}
	return fullSize(u), true
}

// DisplayPrice returns the price with the currency glyph, or false when the
// product has no price.
func (p Product) DisplayPrice() (string, bool) {
	if p.Price == nil {
		return "", false
	}
	return *p.Price, true
}

// DeepLink returns the external product page for the product.
func (p Product) DeepLink() string {
	return DeepLink(p.ASIN)
}

// DeepLink returns the external product page for asin.
func DeepLink(asin string) string {
	return fmt.Sprintf(DeepLinkTemplate, url.PathEscape(asin))
}

func fullSize(u string) string {
	if !strings.Contains(u, "_AC_") {
		return u
	}
	parts := strings.Split(u, "._")
	if len(parts) < 2 {
		return u
	}
	tail := parts[len(parts)-1]
	ext := tail[strings.LastIndex(tail, "_")+1:]
	return parts[0] + ext
}
