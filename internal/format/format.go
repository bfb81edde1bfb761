// Package format turns raw API values into display strings.
//
// Every function is pure; nil numbers render as Placeholder.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Placeholder is shown in place of a missing number.
const Placeholder = "-"

// Class is the gain/loss colour tag of a value.
type Class string

const (
	Positive Class = "positive"
	Negative Class = "negative"
	Neutral  Class = "neutral"
)

// grouped renders minor units as "1,234.56".
var grouped = money.NewFormatter(2, ".", ",", "", "1")

// Float returns a pointer to v, for literals and tests.
func Float(v float64) *float64 {
	return &v
}

// Money formats v with two decimals and thousands grouping, followed by a
// space and the currency symbol. Money(1234.5, "") is "1,234.50 ".
func Money(v *float64, symbol string) string {
	if v == nil {
		return Placeholder
	}
	return number(decimal.NewFromFloat(*v)) + " " + symbol
}

// Percent formats a ratio as a percentage: 0.1234 is "12.34 %".
func Percent(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return number(decimal.NewFromFloat(*v).Shift(2)) + " %"
}

// maxCents is the largest amount of minor units go-money can hold.
var maxCents = decimal.NewFromInt(math.MaxInt64)

// number rounds d half away from zero to two decimals and groups
// thousands. A negative value that rounds to zero keeps its sign.
func number(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	d = d.Abs().Round(2)

	if cents := d.Shift(2); cents.LessThanOrEqual(maxCents) {
		return sign + grouped.Format(cents.IntPart())
	}
	return sign + groupDigits(d.StringFixed(2))
}

// groupDigits inserts "," every three digits of the integer part of an
// unsigned "123456.78".
func groupDigits(s string) string {
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(whole)/3)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// ColorClass tags strictly positive and strictly negative values; zero and
// nil are neutral.
func ColorClass(v *float64) Class {
	switch {
	case v == nil:
		return Neutral
	case *v > 0:
		return Positive
	case *v < 0:
		return Negative
	}
	return Neutral
}

const dateLayout = "2006-01-02 15:04:05"

// Date renders an API timestamp as "YYYY-MM-DD HH:MM:SS" in the local time
// zone. Empty or unparseable input gives "".
func Date(s string) string {
	return DateIn(s, time.Local)
}

// DateIn is Date rendered in loc.
func DateIn(s string, loc *time.Location) string {
	t, ok := parseTimestamp(strings.TrimSpace(s), loc)
	if !ok {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

// zoned layouts carry their own offset.
var zoned = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
}

// naive layouts are wall-clock times in the viewer's zone.
var naive = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zoned {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naive {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	// date-only values are UTC midnight
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
