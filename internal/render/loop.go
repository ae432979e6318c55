package render

import (
	"strings"

	"github.com/mgpai22/subcanvas/internal/geometry"
)

// Loop draws the current video frame and the subtitle active at the current
// playback time once per scheduled tick.
//
// It keeps rescheduling itself only while the gate reports playing. Any other
// tick is the last one until Start or Invalidate asks for more. The first
// matching cue wins when cues overlap.
type Loop struct {
	surface Surface
	source  FrameSource
	clock   Clock
	cues    Cues
	sched   Scheduler
	gate    Gate
	style   Style

	geom     geometry.Rect
	haveGeom bool
	srcW     int
	srcH     int
	pending  bool
	ticks    int
}

type Config struct {
	Surface   Surface
	Source    FrameSource
	Clock     Clock
	Cues      Cues
	Scheduler Scheduler
	Gate      Gate
	Style     Style
}

func NewLoop(cfg Config) *Loop {
	if cfg.Style.Backing == nil {
		cfg.Style = DefaultStyle()
	}
	return &Loop{
		surface: cfg.Surface,
		source:  cfg.Source,
		clock:   cfg.Clock,
		cues:    cfg.Cues,
		sched:   cfg.Scheduler,
		gate:    cfg.Gate,
		style:   cfg.Style,
	}
}

// called when playback starts; refreshes the geometry and schedules a tick
func (l *Loop) Start() {
	l.refreshGeometry()
	l.request()
}

// schedules a single redraw, e.g. after a seek while paused
func (l *Loop) Invalidate() {
	l.request()
}

// resizes the surface and redraws at the new geometry
func (l *Loop) Resize(width, height float64) {
	l.surface.Resize(width, height)
	l.refreshGeometry()
	l.request()
}

// drops the cached geometry so the next tick fits the source again, e.g.
// after a different video is loaded
func (l *Loop) Reset() {
	l.haveGeom = false
	l.request()
}

// current frame rectangle, false until the source dimensions are known
func (l *Loop) Geometry() (geometry.Rect, bool) {
	return l.geom, l.haveGeom
}

// number of ticks drawn so far
func (l *Loop) Ticks() int {
	return l.ticks
}

// Tick renders one frame and reschedules while playing.
func (l *Loop) Tick() {
	l.pending = false
	l.draw()
	l.ticks++
	if l.gate.Playing() {
		l.request()
	}
}

func (l *Loop) request() {
	if l.pending {
		return
	}
	l.pending = true
	l.sched.RequestFrame(l.Tick)
}

func (l *Loop) refreshGeometry() {
	vw, vh := l.source.VideoSize()
	l.srcW, l.srcH = vw, vh
	sw, sh := l.surface.Size()
	r, err := geometry.Fit(float64(vw), float64(vh), sw, sh)
	if err != nil {
		// retried on the next tick
		l.haveGeom = false
		return
	}
	l.geom = r
	l.haveGeom = true
}

func (l *Loop) draw() {
	if vw, vh := l.source.VideoSize(); !l.haveGeom || vw != l.srcW || vh != l.srcH {
		l.refreshGeometry()
	}

	l.surface.Clear()
	if l.haveGeom {
		if frame := l.source.Frame(); frame != nil {
			l.surface.DrawFrame(frame, l.geom)
		}
	}

	text, ok := l.cues.Lookup(l.clock.CurrentTime())
	if !ok {
		return
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	if text == "" {
		return
	}

	width, height := l.surface.Size()
	textWidth := l.surface.MeasureText(text)
	fontHeight := l.surface.FontHeight()
	baseline := height * l.style.VerticalFraction
	pad := l.style.Padding

	l.surface.FillRect(geometry.Rect{
		X:      width/2 - textWidth/2 - pad/2,
		Y:      baseline - fontHeight,
		Width:  textWidth + pad,
		Height: fontHeight + pad,
	}, l.style.Backing)
	l.surface.FillTextCentered(text, width/2, baseline, l.style.Foreground)
}
