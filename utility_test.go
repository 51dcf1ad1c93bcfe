package daylog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "Debug"},
		{"ERROR", "Error"},
		{" Info ", "Info"},
		{"core error", "Core Error"},
		{"CORE  warning", "Core Warning"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLevel(tt.input))
		})
	}
}

func TestLevelFilter(t *testing.T) {
	f := NewLevelFilter([]string{"info", "WARNING"})
	assert.False(t, f.AcceptAll())
	assert.True(t, f.Admit("Info"))
	assert.True(t, f.Admit("warning"))
	assert.False(t, f.Admit("Debug"))
	for _, lvl := range severeLevels {
		assert.True(t, f.Admit(lvl), lvl)
	}
	assert.ElementsMatch(t, append([]string{"Info", "Warning"}, severeLevels...), f.Levels())

	all := NewLevelFilter([]string{"all"})
	assert.True(t, all.AcceptAll())
	assert.True(t, all.Admit("anything at all"))

	// An empty list admits only the severe levels
	none := NewLevelFilter(nil)
	assert.False(t, none.Admit(LevelError))
	assert.True(t, none.Admit("compile warning"))
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Equal(t, "daylog: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("daylog: already prefixed")
	assert.Equal(t, "daylog: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Same(t, e1, combineErrors(e1, nil))
	assert.Same(t, e2, combineErrors(nil, e2))

	both := combineErrors(e1, e2)
	assert.ErrorIs(t, both, e1)
	assert.ErrorIs(t, both, e2)
}

func TestBacktrace(t *testing.T) {
	t.Run("cause chain", func(t *testing.T) {
		root := errors.New("disk full")
		wrapped := fmt.Errorf("writing segment: %w", root)

		trace := Backtrace(wrapped)
		lines := strings.Split(trace, "\n")
		assert.Equal(t, "Caused by: *fmt.wrapError: writing segment: disk full", lines[0])
		assert.Equal(t, "Caused by: *errors.errorString: disk full", lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "#0 "))
	})

	t.Run("stack frames of the caller", func(t *testing.T) {
		trace := Backtrace(nil)
		assert.True(t, strings.HasPrefix(trace, "#0 "))
		assert.Contains(t, trace, "utility_test.go")
		assert.Contains(t, trace, "TestBacktrace")
		assert.NotContains(t, trace, "Caused by")
	})

	t.Run("logger frames are skipped", func(t *testing.T) {
		logger, _ := newTestLogger(t, nil, WithTracer(Backtrace))
		logger.Error("failed")

		e, ok := logger.Queue().Pop()
		assert.True(t, ok)
		assert.NotContains(t, e.Message, "buildEntry")
		assert.Contains(t, e.Message, "utility_test.go")
	})
}
