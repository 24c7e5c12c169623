package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roomnlu/internal/model"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	clockTokenRe  = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
	dayMonthRe    = regexp.MustCompile(`^(\d{1,2})\s*([a-z]{3,})$`)
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?$`)
)

// monthsByAbbrev maps 3-letter month abbreviations to month numbers.
var monthsByAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// relativeDays maps recognized relative-date phrases to day offsets.
var relativeDays = map[string]int{
	"today":              0,
	"tomorrow":           1,
	"day after tomorrow": 2,
}

// Normalize converts raw slot strings into canonical forms: lowercase
// hyphenated room id, ISO calendar date, 24-hour HH:MM times. Every
// conversion is best-effort; an unrecognized token becomes absent, never an
// error.
func Normalize(slots model.SlotMap, referenceTime time.Time) model.NormalizedArgs {
	args := model.NewNormalizedArgs()

	if room, ok := slots[model.SlotRoom]; ok {
		id := NormalizeRoomID(room)
		args.RoomID = &id
	}
	if date, ok := slots[model.SlotDate]; ok {
		args.Date = NormalizeDate(date, referenceTime)
	}
	if start, ok := slots[model.SlotStart]; ok {
		args.Start = NormalizeTime(start)
	}
	if end, ok := slots[model.SlotEnd]; ok {
		args.End = NormalizeTime(end)
	}

	return args
}

// NormalizeRoomID lowercases a room label and collapses internal whitespace
// to single hyphens: "SJT 315" -> "sjt-315".
func NormalizeRoomID(room string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(room)), "-")
}

// NormalizeDate resolves a raw date token against the reference time,
// producing an ISO calendar date, or nil for anything outside the grammar.
// Numeric dates are read day-first ("5/6" is 5 June); a two-digit year is
// used verbatim. Relative weekday phrases like "next Friday" are not in the
// grammar and normalize to nil.
func NormalizeDate(token string, referenceTime time.Time) *string {
	s := strings.ToLower(strings.TrimSpace(token))
	if s == "" {
		return nil
	}

	if delta, ok := relativeDays[s]; ok {
		iso := referenceTime.AddDate(0, 0, delta).Format("2006-01-02")
		return &iso
	}

	if m := dayMonthRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthsByAbbrev[m[2][:3]]
		if !ok {
			return nil
		}
		return isoDate(referenceTime.Year(), month, day)
	}

	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		year := referenceTime.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if monthNum < 1 || monthNum > 12 {
			return nil
		}
		return isoDate(year, time.Month(monthNum), day)
	}

	return nil
}

// isoDate builds an ISO date string, rejecting impossible day/month
// combinations (time.Date silently rolls them over, so round-trip check).
func isoDate(year int, month time.Month, day int) *string {
	if day < 1 || day > 31 {
		return nil
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return nil
	}
	iso := d.Format("2006-01-02")
	return &iso
}

// NormalizeTime parses "H[:MM][am|pm]" into 24-hour "HH:MM". "12 am" is
// midnight, "12 pm" is noon. Out-of-range or malformed tokens return nil.
func NormalizeTime(token string) *string {
	s := strings.ToLower(strings.TrimSpace(token))
	m := clockTokenRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil
	}

	hhmm := fmt.Sprintf("%02d:%02d", hour, minute)
	return &hhmm
}
