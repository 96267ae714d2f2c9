package product

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	savingsPattern = regexp.MustCompile(`(?i)\s*with\s+(\d+)\s+percent\s+savings.*`)
	amountPattern  = regexp.MustCompile(`[\d,]+\.?\d*`)
	countPattern   = regexp.MustCompile(`[\d,]+`)
)

// PriceInfo is the numeric reading of a scraped price string.
type PriceInfo struct {
	Amount float64

	// DiscountPercent is set when the price advertised savings,
	// e.g. "$1,234.56 with 18 percent savings".
	DiscountPercent *int
}

// ParsePrice extracts the amount and advertised discount from a price
// string. Commas are treated as thousands separators.
func ParsePrice(price string) (PriceInfo, bool) {
	if strings.TrimSpace(price) == "" {
		return PriceInfo{}, false
	}

	var info PriceInfo
	if m := savingsPattern.FindStringSubmatch(price); m != nil {
		if pct, err := strconv.Atoi(m[1]); err == nil {
			info.DiscountPercent = &pct
		}
		price = savingsPattern.ReplaceAllString(price, "")
	}

	match := amountPattern.FindString(price)
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return PriceInfo{}, false
	}
	info.Amount = amount
	return info, true
}

// ParseRatingCount reads "1,234 ratings" as 1234.
func ParseRatingCount(count string) (int, bool) {
	match := countPattern.FindString(count)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Savings returns the advertised discount of the product price, if any.
func (p Product) Savings() (int, bool) {
	if p.Price == nil {
		return 0, false
	}
	info, ok := ParsePrice(*p.Price)
	if !ok || info.DiscountPercent == nil {
		return 0, false
	}
	return *info.DiscountPercent, true
}

// Reviews returns the number of ratings behind Rating, if known.
func (p Product) Reviews() (int, bool) {
	if p.RatingCount == nil {
		return 0, false
	}
	return ParseRatingCount(*p.RatingCount)
}
