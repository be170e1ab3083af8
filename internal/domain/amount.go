package domain

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// ParseAmount turns free-text user input into a whole-Rupiah amount.
// Non-digit characters are stripped before parsing, so "Rp 50.000"
// resolves to 50000. Empty or non-numeric input resolves to zero.
func ParseAmount(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatRupiah renders a whole-Rupiah amount with Indonesian digit
// grouping, e.g. 50000 -> "Rp50.000".
func FormatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp%d", amount)
}
