package formatter

import (
	"strconv"
	"time"
)

// MicroToken is the pattern character rendered as a six digit microsecond value
const MicroToken = 'u'

// DateFunc renders a timestamp into text
type DateFunc func(t time.Time) string

// NewDateFunc selects the date rendering strategy once for a pattern.
// Patterns with an unescaped microsecond token keep sub-second precision,
// all other patterns are rendered at integer-second resolution.
func NewDateFunc(pattern string) DateFunc {
	if HasMicros(pattern) {
		return func(t time.Time) string { return FormatDateMicro(pattern, t) }
	}
	return func(t time.Time) string { return FormatDate(pattern, t) }
}

// HasMicros reports whether pattern contains a microsecond token not escaped by a backslash
func HasMicros(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++ // skip escaped char
		case MicroToken:
			return true
		}
	}
	return false
}

// FormatDate renders t with integer-second resolution
func FormatDate(pattern string, t time.Time) string {
	return string(AppendDate(nil, pattern, t.Truncate(time.Second)))
}

// FormatDateMicro renders t keeping microsecond precision for the 'u' token
func FormatDateMicro(pattern string, t time.Time) string {
	return string(AppendDate(nil, pattern, t))
}

// AppendDate appends t rendered with a single-letter token pattern such as "Y-m-d H:i:s.u" to buf.
// A backslash makes the following character literal, unknown characters are copied as-is.
func AppendDate(buf []byte, pattern string, t time.Time) []byte {
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' {
			if i+1 < len(pattern) {
				i++
				buf = append(buf, pattern[i])
			}
			continue
		}
		buf = appendToken(buf, c, t)
	}
	return buf
}

func appendToken(buf []byte, c byte, t time.Time) []byte {
	switch c {
	// Day
	case 'd':
		return appendPad(buf, t.Day(), 2)
	case 'D':
		return append(buf, t.Weekday().String()[:3]...)
	case 'j':
		return strconv.AppendInt(buf, int64(t.Day()), 10)
	case 'l':
		return append(buf, t.Weekday().String()...)
	case 'N':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return strconv.AppendInt(buf, int64(wd), 10)
	case 'S':
		return append(buf, ordinalSuffix(t.Day())...)
	case 'w':
		return strconv.AppendInt(buf, int64(t.Weekday()), 10)
	case 'z':
		return strconv.AppendInt(buf, int64(t.YearDay()-1), 10)

	// Week
	case 'W':
		_, week := t.ISOWeek()
		return appendPad(buf, week, 2)

	// Month
	case 'F':
		return append(buf, t.Month().String()...)
	case 'm':
		return appendPad(buf, int(t.Month()), 2)
	case 'M':
		return append(buf, t.Month().String()[:3]...)
	case 'n':
		return strconv.AppendInt(buf, int64(t.Month()), 10)
	case 't':
		return strconv.AppendInt(buf, int64(daysIn(t)), 10)

	// Year
	case 'L':
		if daysInYear(t.Year()) == 366 {
			return append(buf, '1')
		}
		return append(buf, '0')
	case 'o':
		year, _ := t.ISOWeek()
		return strconv.AppendInt(buf, int64(year), 10)
	case 'Y':
		return strconv.AppendInt(buf, int64(t.Year()), 10)
	case 'y':
		return appendPad(buf, t.Year()%100, 2)

	// Time
	case 'a':
		if t.Hour() < 12 {
			return append(buf, "am"...)
		}
		return append(buf, "pm"...)
	case 'A':
		if t.Hour() < 12 {
			return append(buf, "AM"...)
		}
		return append(buf, "PM"...)
	case 'g':
		return strconv.AppendInt(buf, int64(hour12(t)), 10)
	case 'G':
		return strconv.AppendInt(buf, int64(t.Hour()), 10)
	case 'h':
		return appendPad(buf, hour12(t), 2)
	case 'H':
		return appendPad(buf, t.Hour(), 2)
	case 'i':
		return appendPad(buf, t.Minute(), 2)
	case 's':
		return appendPad(buf, t.Second(), 2)
	case MicroToken:
		return appendPad(buf, t.Nanosecond()/int(time.Microsecond), 6)
	case 'v':
		return appendPad(buf, t.Nanosecond()/int(time.Millisecond), 3)

	// Timezone
	case 'e':
		return append(buf, t.Location().String()...)
	case 'T':
		return t.AppendFormat(buf, "MST")
	case 'P':
		return t.AppendFormat(buf, "-07:00")
	case 'O':
		return t.AppendFormat(buf, "-0700")
	case 'Z':
		_, offset := t.Zone()
		return strconv.AppendInt(buf, int64(offset), 10)

	// Full date/time
	case 'c':
		return t.AppendFormat(buf, "2006-01-02T15:04:05-07:00")
	case 'r':
		return t.AppendFormat(buf, "Mon, 02 Jan 2006 15:04:05 -0700")
	case 'U':
		return strconv.AppendInt(buf, t.Unix(), 10)
	}
	return append(buf, c)
}

func appendPad(buf []byte, v, width int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	var digits [20]byte
	s := strconv.AppendInt(digits[:0], int64(v), 10)
	for n := len(s); n < width; n++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func daysInYear(year int) int {
	if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
		return 366
	}
	return 365
}
