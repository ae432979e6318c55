package subtitle

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"00:00:00,000", 0},
		{"00:01:02,500", 62.5},
		{"01:00:00,000", 3600},
		{"00:00:01,250", 1.25},
		{"10:59:59,999", 10*3600 + 59*60 + 59 + 0.999},
		{" 00:00:04,000 ", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	inputs := []string{
		"",
		"00:01,500",
		"00:00:01:02,500",
		"00:00:01.500",
		"00:00:01,500,1",
		"aa:00:01,000",
		"00:-1:01,000",
		"00::01,000",
		"00:00:01,",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimestamp(input)
			if !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("ParseTimestamp(%q): expected ErrMalformedTimestamp, got %v", input, err)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "00:00:00,000"},
		{62*time.Second + 500*time.Millisecond, "00:01:02,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, "01:02:03,004"},
		{-time.Second, "00:00:00,000"},
	}

	for _, tt := range tests {
		got := FormatTimestamp(tt.input)
		if got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.want)
		}
		if tt.input >= 0 {
			secs, err := ParseTimestamp(got)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) failed: %v", got, err)
			}
			if math.Abs(secs-tt.input.Seconds()) > 1e-9 {
				t.Errorf("round trip %v: got %v seconds", tt.input, secs)
			}
		}
	}
}

func TestParseTimestampLargeHours(t *testing.T) {
	got, err := ParseTimestamp("9999999999999999:00:00,000")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}
	if want := 9999999999999999.0 * 3600; got != want {
		t.Errorf("ParseTimestamp = %v, want %v", got, want)
	}
}
