package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// TimestampError describes the cue field that failed to parse.
type TimestampError struct {
	Cue   int // 0-based position within the file
	Field string
	Value string
	Err   error // parse failure, wraps ErrMalformedTimestamp
}

func (e *TimestampError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cue %d: %s %q: %v", e.Cue+1, e.Field, e.Value, ErrMalformedTimestamp)
	}
	return fmt.Sprintf("cue %d: %s: %v", e.Cue+1, e.Field, e.Err)
}

func (e *TimestampError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedTimestamp}
	}
	return []error{ErrMalformedTimestamp, e.Err}
}

// converts an HH:MM:SS,mmm timestamp into seconds
func ParseTimestamp(s string) (float64, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("%w: %q: expected HH:MM:SS,mmm", ErrMalformedTimestamp, s)
	}
	secMs := strings.Split(fields[2], ",")
	if len(secMs) != 2 {
		return 0, fmt.Errorf("%w: %q: missing millisecond suffix", ErrMalformedTimestamp, s)
	}

	h, err := parseField(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: hours: %v", ErrMalformedTimestamp, s, err)
	}
	m, err := parseField(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minutes: %v", ErrMalformedTimestamp, s, err)
	}
	sec, err := parseField(secMs[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: seconds: %v", ErrMalformedTimestamp, s, err)
	}
	ms, err := parseField(secMs[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: milliseconds: %v", ErrMalformedTimestamp, s, err)
	}

	return float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000, nil
}

func parseField(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid digit %q", r)
		}
	}
	return strconv.Atoi(s)
}

// renders a duration as HH:MM:SS,mmm
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
