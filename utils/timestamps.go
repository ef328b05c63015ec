package utils

import "time"

// TimestampLayout matches the ISO-8601 form browsers emit: millisecond precision, UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp formats t in TimestampLayout
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NowTimestamp is Timestamp(Now())
func NowTimestamp() string {
	return Timestamp(Now())
}

// ParseTimestamp accepts the layouts the remote service and old local data use.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NextTimestamp returns a timestamp for now that is strictly after previous,
// bumping by one millisecond when the clock has not moved past it.
func NextTimestamp(previous string) string {
	now := Now()
	if prev, ok := ParseTimestamp(previous); ok && !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return Timestamp(now)
}
