package exporter

import (
	"strconv"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatOptionalFloat renders nil as an empty field.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatDate renders a date without its time part when it has none.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return cellValue(*t).(string)
}

// cellValue converts values the spreadsheet writers cannot store natively.
func cellValue(v interface{}) interface{} {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
