package subtitle

import (
	"github.com/mgpai22/subcanvas/internal/timeline"
)

// converts raw cues into seconds. The first malformed timestamp aborts the
// whole batch; cues whose range is empty or inverted are dropped.
func Normalize(raw []RawCue) ([]Cue, error) {
	cues := make([]Cue, 0, len(raw))
	for i, rc := range raw {
		start, err := ParseTimestamp(rc.StartTime)
		if err != nil {
			return nil, &TimestampError{Cue: i, Field: "start", Value: rc.StartTime, Err: err}
		}
		end, err := ParseTimestamp(rc.EndTime)
		if err != nil {
			return nil, &TimestampError{Cue: i, Field: "end", Value: rc.EndTime, Err: err}
		}

		cue := Cue{StartSeconds: start, EndSeconds: end, Text: rc.Text}
		if !cue.Valid() {
			continue
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

// builds a fresh index over already normalized cues
func BuildIndex(cues []Cue) *timeline.Index[string] {
	ix := timeline.New[string]()
	for _, c := range cues {
		ix.Insert(c.StartSeconds, c.EndSeconds, c.Text)
	}
	return ix
}

// normalizes raw cues and returns a new index holding all valid ones
func Ingest(raw []RawCue) (*timeline.Index[string], error) {
	_, ix, err := IngestCues(raw)
	return ix, err
}

// like Ingest but also returns the kept cues in file order
func IngestCues(raw []RawCue) ([]Cue, *timeline.Index[string], error) {
	cues, err := Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	return cues, BuildIndex(cues), nil
}
