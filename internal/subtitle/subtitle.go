package subtitle

// cue record as handed over by a subtitle file parser, timestamps still in
// their HH:MM:SS,mmm text form
type RawCue struct {
	StartTime string
	EndTime   string
	Text      string
}

// normalized subtitle entry, times in seconds
type Cue struct {
	StartSeconds float64
	EndSeconds   float64
	Text         string
}

// reports whether the cue spans a non-empty forward range
func (c Cue) Valid() bool {
	return c.StartSeconds >= 0 && c.StartSeconds < c.EndSeconds
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatSTL  Format = "stl"
	FormatTTML Format = "ttml"
)

// interface for turning subtitle file contents into raw cues
type Parser interface {
	Parse(path string) ([]RawCue, error)
}
