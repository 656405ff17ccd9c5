package finance

import (
	"fmt"
	"math"
	"strconv"
)

// FormatINR renders an amount as rupees with Indian digit grouping and no
// paise, e.g. 1234567 -> "₹12,34,567".
func FormatINR(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return fmt.Sprintf("%s₹%s", sign, s)
	}

	// Last group of three, then groups of two.
	out := s[len(s)-3:]
	rest := s[:len(s)-3]
	for len(rest) > 2 {
		out = rest[len(rest)-2:] + "," + out
		rest = rest[:len(rest)-2]
	}
	return fmt.Sprintf("%s₹%s,%s", sign, rest, out)
}
