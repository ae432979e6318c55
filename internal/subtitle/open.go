package subtitle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astisub"
)

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// reads a subtitle file into raw cues, picking the reader from the extension
func Open(path string) ([]RawCue, error) {
	switch GetFormatFromExtension(path) {
	case FormatSRT:
		return parseSRTFile(path)
	case FormatVTT, FormatASS, FormatSTL, FormatTTML:
		return parseWithAstisub(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// FileParser implements Parser on top of Open.
type FileParser struct{}

func (FileParser) Parse(path string) ([]RawCue, error) {
	return Open(path)
}

func parseWithAstisub(path string) ([]RawCue, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	cues := make([]RawCue, 0, len(subs.Items))
	for _, item := range subs.Items {
		cues = append(cues, RawCue{
			StartTime: FormatTimestamp(item.StartAt),
			EndTime:   FormatTimestamp(item.EndAt),
			Text:      itemText(item),
		})
	}
	return cues, nil
}

func itemText(item *astisub.Item) string {
	lines := make([]string, 0, len(item.Lines))
	for _, line := range item.Lines {
		lines = append(lines, strings.TrimSpace(line.String()))
	}
	return strings.Join(lines, "\n")
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	case ".stl":
		return FormatSTL
	case ".ttml":
		return FormatTTML
	default:
		return ""
	}
}
