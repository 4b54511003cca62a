// Package hours decides whether a shop is open right now from the free-text
// business-hours field the search API returns (e.g. "11:00～23:00",
// "月～金 11:00～14:00 / 17:00～翌2:00").
package hours

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status is the tri-state answer: free text often carries no parseable
// interval at all, and that is not the same as "closed".
type Status int

const (
	StatusUnknown Status = iota
	StatusOpen
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// separatorNormalizer collapses the range separators seen in listings
// (full-width tilde, wave dash, various dashes) into a plain hyphen.
var separatorNormalizer = strings.NewReplacer(
	"～", "-",
	"〜", "-",
	"ー", "-",
	"−", "-",
	"–", "-",
	"—", "-",
	"~", "-",
	"翌", "", // next-day marker; end < start already encodes the wrap
)

var intervalPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

// Evaluate reports whether now falls inside any HH:MM-HH:MM interval found
// in text. Intervals whose end precedes their start cross midnight.
// Malformed intervals are skipped; when none parse, the answer is Unknown.
func Evaluate(text string, now time.Time) Status {
	normalized := separatorNormalizer.Replace(text)
	matches := intervalPattern.FindAllStringSubmatch(normalized, -1)

	nowMin := now.Hour()*60 + now.Minute()

	parsed := 0
	for _, m := range matches {
		start, ok1 := clockMinutes(m[1], m[2])
		end, ok2 := clockMinutes(m[3], m[4])
		if !ok1 || !ok2 {
			continue
		}
		parsed++

		if end < start {
			// Overnight, e.g. 18:00-02:00.
			if nowMin >= start || nowMin <= end {
				return StatusOpen
			}
		} else if nowMin >= start && nowMin <= end {
			return StatusOpen
		}
	}

	if parsed == 0 {
		return StatusUnknown
	}
	return StatusClosed
}

// clockMinutes converts "H","MM" into minutes since midnight. Listings use
// extended hours up to 29:59 for late-night closings; those wrap into the
// next day, which the end < start rule then handles. Anything beyond that
// or with an impossible minute is treated as malformed.
func clockMinutes(hourStr, minStr string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 29 {
		return 0, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute > 59 {
		return 0, false
	}
	return (hour*60 + minute) % (24 * 60), true
}
