package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned (wrapped) by Validate when a payload lacks the
// identity fields.
var ErrMalformed = errors.New("malformed product")

// wire field names
const (
	fieldASIN         = "asin"
	fieldTitle        = "title"
	fieldBrand        = "brand"
	fieldPrice        = "price"
	fieldRating       = "rating"
	fieldRatingCount  = "rating_count"
	fieldImages       = "images"
	fieldAvailability = "availability"
	fieldDescription  = "product_description"
	fieldInfo         = "info"
	fieldReturnPolicy = "return_policy"
)

type fields map[string]json.RawMessage

// Normalize converts a raw payload into a Product. It returns false when the
// payload is not an object or lacks a string asin or title; it never fails
// for any other reason.
func Normalize(raw json.RawMessage) (Product, bool) {
	p, err := Validate(raw)
	return p, err == nil
}

// Validate is Normalize with the rejection reason.
func Validate(raw json.RawMessage) (Product, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil || f == nil {
		return Product{}, fmt.Errorf("%w: payload is not an object", ErrMalformed)
	}

	asin, ok := f.requiredString(fieldASIN)
	if !ok {
		return Product{}, fmt.Errorf("%w: missing %s", ErrMalformed, fieldASIN)
	}
	title, ok := f.requiredString(fieldTitle)
	if !ok {
		return Product{}, fmt.Errorf("%w: missing %s for %s", ErrMalformed, fieldTitle, asin)
	}

	p := Product{
		ASIN:         asin,
		Title:        title,
		Brand:        f.optionalString(fieldBrand),
		Price:        normalizePrice(f.optionalText(fieldPrice)),
		Rating:       f.optionalNumber(fieldRating),
		RatingCount:  f.optionalText(fieldRatingCount),
		Availability: f.optionalString(fieldAvailability),
		Description:  f.optionalString(fieldDescription),
		Info:         f.optionalString(fieldInfo),
		ReturnPolicy: f.optionalString(fieldReturnPolicy),
		ImageURL:     ResolveImage(f[fieldImages]),
	}
	return p, nil
}

// NormalizeAll normalizes every payload in order and returns the accepted
// products together with the number of rejected payloads.
func NormalizeAll(raws []json.RawMessage) ([]Product, int) {
	products := make([]Product, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		p, ok := Normalize(raw)
		if !ok {
			dropped++
			continue
		}
		products = append(products, p)
	}
	return products, dropped
}

func normalizePrice(price *string) *string {
	if price == nil {
		return nil
	}
	if strings.HasPrefix(*price, CurrencyGlyph) {
		return price
	}
	prefixed := CurrencyGlyph + *price
	return &prefixed
}

func (f fields) requiredString(key string) (string, bool) {
	s := f.optionalString(key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

// optionalString accepts JSON strings only. Blank strings count as absent.
func (f fields) optionalString(key string) *string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// optionalText accepts strings and numbers, numbers being kept in their
// literal decimal form.
func (f fields) optionalText(key string) *string {
	if s := f.optionalString(key); s != nil {
		return s
	}
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	s := n.String()
	return &s
}

// optionalNumber accepts numbers and strings holding a number.
func (f fields) optionalNumber(key string) *float64 {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	s := f.optionalString(key)
	if s == nil {
		return nil
	}
	// scraped ratings read like "4.5 out of 5 stars"
	lead := strings.Fields(*s)[0]
	n, err := strconv.ParseFloat(lead, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
