package formatter

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// DefaultDatePattern renders e.g. 2024-01-01 12:00:00.123456
const DefaultDatePattern = "Y-m-d H:i:s.u"

// Formatter renders log lines of the form "[<date>] [<level>] <message>\n".
// A Formatter reuses its buffer and is not safe for concurrent use.
type Formatter struct {
	pattern string
	date    DateFunc
	buf     []byte
}

// New creates a formatter using the default date pattern
func New() *Formatter {
	return &Formatter{
		pattern: DefaultDatePattern,
		date:    NewDateFunc(DefaultDatePattern),
		buf:     make([]byte, 0, 1024),
	}
}

// DatePattern sets the date pattern, empty keeps the current one
func (f *Formatter) DatePattern(pattern string) *Formatter {
	if pattern != "" {
		f.pattern = pattern
		f.date = NewDateFunc(pattern)
	}
	return f
}

// Pattern returns the active date pattern
func (f *Formatter) Pattern() string {
	return f.pattern
}

// Date renders t in the local zone using the configured pattern
func (f *Formatter) Date(t time.Time) string {
	return f.date(t.Local())
}

// Line formats a single entry with its timestamp in the local zone, the zone file dates use.
// The returned slice is only valid until the next call.
func (f *Formatter) Line(t time.Time, level, message string) []byte {
	f.buf = f.buf[:0]
	f.buf = append(f.buf, '[')
	f.buf = append(f.buf, f.date(t.Local())...)
	f.buf = append(f.buf, "] ["...)
	f.buf = append(f.buf, level...)
	f.buf = append(f.buf, "] "...)
	f.buf = append(f.buf, message...)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// FormatArgs renders args as space separated values.
// Types without a direct text form are dumped with go-spew.
func FormatArgs(args ...any) string {
	buf := make([]byte, 0, 64)
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// FormatValue renders a single value the same way FormatArgs does
func FormatValue(v any) string {
	return string(appendValue(nil, v))
}

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339Nano)
	case time.Duration:
		return append(buf, val.String()...)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	case []byte:
		return hex.AppendEncode(buf, val)
	default:
		var b bytes.Buffer
		dumper.Fdump(&b, val)
		return append(buf, bytes.TrimSpace(b.Bytes())...)
	}
}

// Dump renders v with go-spew, used for failure context details
func Dump(v any) string {
	var b bytes.Buffer
	dumper.Fdump(&b, v)
	return string(bytes.TrimSpace(b.Bytes()))
}
