package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidSRT = errors.New("invalid srt format")

// timestamps are captured verbatim; Ingest is responsible for validating them
var srtTimingRegex = regexp.MustCompile(`^\s*(\S+)\s*-->\s*(\S+)`)

// reads SubRip cue blocks, keeping timestamps as text
func ReadSRT(r io.Reader) ([]RawCue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues      []RawCue
		current   *RawCue
		textLines []string
		lineNum   int
		sawText   bool
	)

	flush := func() {
		if current != nil {
			current.Text = strings.Join(textLines, "\n")
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		sawText = true

		if current == nil {
			// optional numeric counter, then the timing line
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				if !scanner.Scan() {
					return nil, fmt.Errorf("%w: line %d: cue without timing", ErrInvalidSRT, lineNum)
				}
				line = strings.TrimRight(scanner.Text(), "\r")
				lineNum++
			}
			matches := srtTimingRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("%w: line %d: expected timing line, got %q", ErrInvalidSRT, lineNum, line)
			}
			current = &RawCue{StartTime: matches[1], EndTime: matches[2]}
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}
	if sawText && len(cues) == 0 {
		return nil, fmt.Errorf("%w: no cues found", ErrInvalidSRT)
	}

	return cues, nil
}

func parseSRTFile(path string) ([]RawCue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	return ReadSRT(file)
}
