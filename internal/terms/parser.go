// Package terms parses free-text supplier credit terms into structured form.
package terms

import (
	"regexp"
	"strconv"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// Default term applied when a string cannot be parsed.
const (
	DefaultNetDays = 30
)

var (
	// "2/10 Net 30" style: percent (possibly fractional) / discount window / net days.
	discountPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)/(\d+)\s+Net\s+(\d+)`)

	// "Net 30" style.
	netPattern = regexp.MustCompile(`(?i)Net\s+(\d+)`)
)

// Parse converts a credit-term string into a CreditTerm. It is a total
// function: malformed input degrades to the default Net 30 term instead of
// failing, so a bad term string never aborts invoice creation.
func Parse(text string) entity.CreditTerm {
	if m := discountPattern.FindStringSubmatch(text); m != nil {
		pct, _ := strconv.ParseFloat(m[1], 64)
		discountDays, _ := strconv.Atoi(m[2])
		netDays, _ := strconv.Atoi(m[3])
		return entity.CreditTerm{
			NetDays:      netDays,
			DiscountDays: discountDays,
			DiscountPct:  pct,
		}
	}

	if m := netPattern.FindStringSubmatch(text); m != nil {
		netDays, _ := strconv.Atoi(m[1])
		return entity.CreditTerm{NetDays: netDays}
	}

	return entity.CreditTerm{NetDays: DefaultNetDays}
}
