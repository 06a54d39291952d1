// Package format renders figures for display: money, counts, percentages and
// relative times.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter is bound to one currency and locale.
type Formatter struct {
	unit    currency.Unit
	tag     language.Tag
	printer *message.Printer
}

// New falls back to IDR and Indonesian when either code is unknown.
func New(currencyCode, locale string) *Formatter {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if err != nil {
		unit = currency.IDR
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	return &Formatter{unit: unit, tag: tag, printer: message.NewPrinter(tag)}
}

// Currency formats an amount with the currency symbol, e.g. "Rp 1.250.000".
// Currencies without minor units (IDR, JPY) are printed without decimals.
func (f *Formatter) Currency(amount float64) string {
	scale, _ := currency.Cash.Rounding(f.unit)
	symbol := f.printer.Sprint(currency.Symbol(f.unit))
	return symbol + " " + f.printer.Sprint(number.Decimal(amount, number.Scale(scale)))
}

func (f *Formatter) Number(n float64) string {
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
}

// Percent formats a ratio expressed in percent points, e.g. 12.5 → "12.5%".
func (f *Formatter) Percent(p float64) string {
	return f.printer.Sprint(number.Decimal(p, number.MaxFractionDigits(1))) + "%"
}

// SignedPercent prefixes growth figures with + or -.
func (f *Formatter) SignedPercent(p float64) string {
	if p > 0 {
		return "+" + f.Percent(p)
	}
	return f.Percent(p)
}

// CompactNumber shortens large values: 1200 → "1.2K", 3400000 → "3.4M".
func CompactNumber(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return trimZero(fmt.Sprintf("%.1f", n/1e9)) + "B"
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", n/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", n/1e3)) + "K"
	default:
		return trimZero(fmt.Sprintf("%.1f", n))
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < 0 {
		return "just now"
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month") + " ago"
	default:
		return plural(int(d/(365*24*time.Hour)), "year") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

// MonthLabel turns a "2006-01" bucket key into "Jan 2006".
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// MaskPhone hides the middle digits of a phone number: +6281234567890 → +6281*****7890.
func MaskPhone(phone string) string {
	runes := []rune(strings.TrimSpace(phone))
	if len(runes) <= 8 {
		return string(runes)
	}
	head, tail := 5, 4
	return string(runes[:head]) + strings.Repeat("*", len(runes)-head-tail) + string(runes[len(runes)-tail:])
}
