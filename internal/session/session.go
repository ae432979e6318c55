package session

import (
	"fmt"
	"sync/atomic"

	"github.com/mgpai22/subcanvas/internal/logging"
	"github.com/mgpai22/subcanvas/internal/subtitle"
	"github.com/mgpai22/subcanvas/internal/timeline"
)

// cue set and the index built from it; replaced as a unit
type track struct {
	source string
	cues   []subtitle.Cue
	index  *timeline.Index[string]
}

// Session is the state of one player session: the active subtitle track and
// the loaded media reference. Subtitle reloads build a new track and swap it
// in with a single store, so a render tick sees either the old track or the
// new one in full.
type Session struct {
	logger    *logging.Logger
	parser    subtitle.Parser
	track     atomic.Pointer[track]
	mediaPath atomic.Pointer[string]
}

func New(logger *logging.Logger, parser subtitle.Parser) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	if parser == nil {
		parser = subtitle.FileParser{}
	}
	s := &Session{logger: logger, parser: parser}
	s.track.Store(&track{index: timeline.New[string]()})
	return s
}

// replaces the active track with cues from raw. On error the previous track
// stays active.
func (s *Session) LoadCues(source string, raw []subtitle.RawCue) (int, error) {
	cues, index, err := subtitle.IngestCues(raw)
	if err != nil {
		s.logger.Warnw("Subtitle ingestion failed, keeping previous track",
			"source", source,
			"error", err,
		)
		return 0, fmt.Errorf("failed to ingest %s: %w", source, err)
	}

	s.track.Store(&track{
		source: source,
		cues:   cues,
		index:  index,
	})

	s.logger.Infow("Subtitles loaded",
		"source", source,
		"cues", len(cues),
		"dropped", len(raw)-len(cues),
	)
	return len(cues), nil
}

// parses path and loads the resulting cues
func (s *Session) LoadSubtitleFile(path string) (int, error) {
	raw, err := s.parser.Parse(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read subtitles: %w", err)
	}
	return s.LoadCues(path, raw)
}

// first cue containing seconds
func (s *Session) Lookup(seconds float64) (string, bool) {
	return s.track.Load().index.First(seconds)
}

// every cue containing seconds
func (s *Session) Query(seconds float64) []string {
	return s.track.Load().index.Query(seconds)
}

// active cues in file order
func (s *Session) Cues() []subtitle.Cue {
	return s.track.Load().cues
}

// file the active cues came from, empty before the first load
func (s *Session) SubtitleSource() string {
	return s.track.Load().source
}

func (s *Session) SetMediaPath(path string) {
	s.mediaPath.Store(&path)
}

func (s *Session) MediaPath() string {
	if p := s.mediaPath.Load(); p != nil {
		return *p
	}
	return ""
}
