package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order. Day-first numeric forms match the layout
// the report artifact itself is written in, so an artifact can be fed back.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"2006/01/02",
}

// Excel's 1900 date system; serials outside this window are not dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

// ParseDate converts a raw cell into a calendar date at UTC midnight.
// Empty or unrecognised input yields ok == false and is never an error.
func ParseDate(raw string) (date time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return validDay(t)
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return validDay(t)
	}

	return time.Time{}, false
}

// validDay rejects 0001-01-01, which would be indistinguishable from an
// absent date.
func validDay(t time.Time) (time.Time, bool) {
	day := truncateDay(t)
	if day.IsZero() {
		return time.Time{}, false
	}
	return day, true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// daysBetween is end minus start in whole days, floored at zero. Both sides
// are UTC midnights.
func daysBetween(start, end time.Time) int {
	days := int((end.Unix() - start.Unix()) / secondsPerDay)
	if days < 0 {
		return 0
	}
	return days
}

// weekOfMonth buckets a day of month into weeks 1..5.
func weekOfMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}
