package goquery

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
)

var romanianMonths = map[string]string{
	"ianuarie":   "January",
	"februarie":  "February",
	"martie":     "March",
	"aprilie":    "April",
	"mai":        "May",
	"iunie":      "June",
	"iulie":      "July",
	"august":     "August",
	"septembrie": "September",
	"octombrie":  "October",
	"noiembrie":  "November",
	"decembrie":  "December",
}

// Day-first numeric layouts, tried before dateparse which reads
// ambiguous numeric dates month-first.
var numericLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// parseDate parses dates as they appear on article pages: ISO timestamps,
// day-first numeric dates and Romanian long-form dates such as
// "marți, 12 martie 2024, 10:30".
func parseDate(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), true
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d, true
	}
	for _, layout := range numericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}

	t, err := dateparse.ParseIn(normalizeDate(s), time.UTC)
	if err != nil {
		return civil.Date{}, false
	}
	return civil.DateOf(t), true
}

// normalizeDate rewrites "<weekday>, <day> <month> <year>[, <time>]" with a
// Romanian month name into "<day> <Month> <year>". Other input is returned
// with surrounding whitespace removed.
func normalizeDate(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i := 0; i+2 < len(fields); i++ {
		month, ok := romanianMonths[strings.Trim(fields[i+1], ",.")]
		if !ok {
			continue
		}
		day := strings.Trim(fields[i], ",.")
		year := strings.Trim(fields[i+2], ",.")
		return day + " " + month + " " + year
	}
	return strings.TrimSpace(s)
}
