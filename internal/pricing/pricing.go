package pricing

import (
	"sort"
	"strconv"
)

// DefaultFormat is assigned to every newly added photo.
const DefaultFormat = "10x15"

// priceList maps print format to unit price. Static configuration,
// not user-editable.
var priceList = map[string]float64{
	"10x15": 0.79,
	"13x18": 1.29,
	"15x21": 1.99,
	"21x30": 5.99,
}

// Valid reports whether format is a known print format.
func Valid(format string) bool {
	_, ok := priceList[format]
	return ok
}

// UnitPrice returns the unit price for format. ok is false for an
// unknown format.
func UnitPrice(format string) (price float64, ok bool) {
	price, ok = priceList[format]
	return price, ok
}

// Formats returns all known formats in ascending price order.
func Formats() []string {
	formats := make([]string, 0, len(priceList))
	for f := range priceList {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool {
		return priceList[formats[i]] < priceList[formats[j]]
	})
	return formats
}

// FormatAmount renders a price with two decimals, the way it appears on
// the wire and in user-facing output.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
