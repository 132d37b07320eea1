// Package datefmt renders raw ledger dates as "1st Jan 2026" style strings.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

// layouts are tried in priority order; the sheet's native day-month-year
// form wins over ISO and US forms when a value is ambiguous.
var layouts = []string{"02-01-2006", "2006-01-02", "01/02/2006"}

// Format converts a raw date or timestamp to display form. A trailing time
// component is dropped before parsing. Values that match none of the known
// layouts are returned unchanged.
func Format(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || value == "N/A" {
		return "N/A"
	}
	datePart := value
	if i := strings.IndexByte(datePart, ' '); i >= 0 {
		datePart = datePart[:i]
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, datePart)
		if err != nil {
			continue
		}
		day := t.Day()
		return fmt.Sprintf("%d%s %s", day, ordinalSuffix(day), t.Format("Jan 2006"))
	}
	return raw
}

func ordinalSuffix(day int) string {
	if v := day % 100; v >= 11 && v <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
