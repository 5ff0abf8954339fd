package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeExpressionParser extracts a clock time from free text using a
// fixed, ordered pattern chain. The first matching pattern wins; a
// longer or "better" match later in the chain never overrides an
// earlier one.
type TimeExpressionParser struct{}

var (
	reClockMeridiem = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`)
	reHourMeridiem  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	reClock24       = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// dayPartHours are the default hours for named parts of the day.
var dayPartHours = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   18,
	"night":     21,
}

var reDayPart = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night)\b`)

// Parse returns the first clock time found in text as "HH:MM" in
// 24-hour form. The second return value is false when no pattern
// matches; that is a normal outcome, not an error.
func (TimeExpressionParser) Parse(text string) (string, bool) {
	if m := reClockMeridiem.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if t, ok := formatClock(applyMeridiem(hour, m[3]), minute); ok {
			return t, true
		}
	}

	if m := reHourMeridiem.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if t, ok := formatClock(applyMeridiem(hour, m[2]), 0); ok {
			return t, true
		}
	}

	if m := reClock24.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if t, ok := formatClock(hour, minute); ok {
			return t, true
		}
	}

	return "", false
}

// ParseValue is Parse for values of unknown type. Anything that is not
// a string is a no-match.
func (p TimeExpressionParser) ParseValue(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return p.Parse(s)
}

// DayPartHour returns the default hour for a named part of the day
// ("tomorrow evening" -> 18). Used only after the numeric chain found
// nothing.
func (TimeExpressionParser) DayPartHour(text string) (int, bool) {
	m := reDayPart.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	hour, ok := dayPartHours[strings.ToLower(m[1])]
	return hour, ok
}

func applyMeridiem(hour int, meridiem string) int {
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func formatClock(hour, minute int) (string, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
