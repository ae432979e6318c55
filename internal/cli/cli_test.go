package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSubs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movie.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write subtitles: %v", err)
	}
	return path
}

const overlapping = `1
00:00:00,000 --> 00:00:05,000
A

2
00:00:02,000 --> 00:00:08,000
B
`

func TestCuesAt(t *testing.T) {
	path := writeSubs(t, overlapping)

	out, err := runRoot(t, "cues", path, "--at", "3")
	if err != nil {
		t.Fatalf("cues failed: %v", err)
	}
	want := "* [00:00:00,000 --> 00:00:05,000] A\n  [00:00:02,000 --> 00:00:08,000] B\n"
	if out != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestCuesNoMatch(t *testing.T) {
	path := writeSubs(t, overlapping)

	out, err := runRoot(t, "cues", path, "--at", "8")
	if err != nil {
		t.Fatalf("cues failed: %v", err)
	}
	if !strings.Contains(out, "no cue at 00:00:08,000") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCuesMalformed(t *testing.T) {
	path := writeSubs(t, "1\n00:00:01.000 --> 00:00:02,000\nbad\n")

	_, err := runRoot(t, "cues", path, "--at", "1")
	if err == nil || !strings.Contains(err.Error(), "malformed timestamp") {
		t.Errorf("expected malformed timestamp error, got %v", err)
	}
}

func TestParseFraction(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1} {
		if _, err := parseFraction(v); err != nil {
			t.Errorf("parseFraction(%v) failed: %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.1} {
		if _, err := parseFraction(v); err == nil {
			t.Errorf("parseFraction(%v): expected error", v)
		}
	}
}

func TestEvenSize(t *testing.T) {
	tests := []struct {
		logical, ratio, want float64
	}{
		{1280, 1, 1280},
		{721, 1, 722},
		{360, 2, 360},
		{360.5, 2, 361},
		{100.25, 2, 101},
	}
	for _, tt := range tests {
		if got := evenSize(tt.logical, tt.ratio); got != tt.want {
			t.Errorf("evenSize(%v, %v) = %v, want %v", tt.logical, tt.ratio, got, tt.want)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	if got := defaultOutput("/videos/movie.mkv", ".png"); got != "/videos/movie.png" {
		t.Errorf("unexpected output path %q", got)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
