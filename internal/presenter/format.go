// internal/presenter/format.go
package presenter

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	LongDate  = "January 2, 2006"
	ShortDate = "Jan 2, 2006"
	LeadDate  = "02/01/2006 03:04 PM"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber abbreviates counts: 1234 -> 1.2K, 3400000 -> 3.4M.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(n, 10)
}

// FormatCurrency renders USD with grouping and no forced decimals.
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return sign + "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatBudget mirrors a plain locale number with a dollar prefix.
func FormatBudget(v float64) string {
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Percent renders part/whole with one decimal. An empty whole yields 0.0%.
func Percent(part, whole int64) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

func formatDate(s, layout string) string {
	t, ok := ParseDate(s)
	if !ok {
		return "Invalid Date"
	}
	return t.Format(layout)
}

func FormatLongDate(s string) string  { return formatDate(s, LongDate) }
func FormatShortDate(s string) string { return formatDate(s, ShortDate) }
func FormatLeadDate(s string) string  { return formatDate(s, LeadDate) }

// ScoreColor buckets a lead score: >=8 green, >=5 yellow, else red.
func ScoreColor(score float64) string {
	switch {
	case score >= 8:
		return "score-green"
	case score >= 5:
		return "score-yellow"
	}
	return "score-red"
}

func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FuncMap exposes the formatters to page templates. now is read per call.
func FuncMap(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"number":     FormatNumber,
		"currency":   FormatCurrency,
		"budget":     FormatBudget,
		"percent":    Percent,
		"longDate":   FormatLongDate,
		"shortDate":  FormatShortDate,
		"leadDate":   FormatLeadDate,
		"score":      FormatScore,
		"scoreColor": ScoreColor,
		"status": func(start, end string) Status {
			return CampaignStatus(now(), start, end)
		},
	}
}
