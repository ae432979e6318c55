package player

import (
	"context"
	"fmt"
	"image"

	"github.com/mgpai22/subcanvas/internal/logging"
	"github.com/mgpai22/subcanvas/internal/playback"
	"github.com/mgpai22/subcanvas/internal/render"
	"github.com/mgpai22/subcanvas/internal/session"
)

// media element the player drives
type Element interface {
	playback.Media
	render.FrameSource
	Load(ctx context.Context, path string) error
	Advance() error
	Close() error
}

type Options struct {
	Logger    *logging.Logger
	Session   *session.Session
	Surface   render.Surface
	Scheduler render.Scheduler
	Style     render.Style
	// builds a fresh element for every video load
	NewElement func() Element
}

// Player wires a session, a playback controller and a render loop around a
// media element: play starts the loop, pause and end of media let it draw one
// final frame, and seeks redraw immediately.
type Player struct {
	logger     *logging.Logger
	session    *session.Session
	controller *playback.Controller
	loop       *render.Loop
	newElement func() Element
	element    Element
	progress   float64
}

func New(opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(logger, nil)
	}

	p := &Player{
		logger:     logger,
		session:    sess,
		controller: playback.NewController(),
		newElement: opts.NewElement,
	}
	p.loop = render.NewLoop(render.Config{
		Surface:   opts.Surface,
		Source:    p,
		Clock:     p,
		Cues:      sess,
		Scheduler: opts.Scheduler,
		Gate:      p.controller,
		Style:     opts.Style,
	})

	p.controller.OnStateChange(func(s playback.State) {
		p.logger.Debugw("Playback state changed", "state", s.String())
		switch s {
		case playback.StatePlaying:
			p.loop.Start()
		case playback.StatePaused:
			p.loop.Invalidate()
		}
	})
	p.controller.OnRedraw(p.loop.Invalidate)
	p.controller.OnProgress(func(percent float64) {
		p.progress = percent
	})

	return p
}

func (p *Player) Session() *session.Session {
	return p.session
}

func (p *Player) Controller() *playback.Controller {
	return p.controller
}

func (p *Player) Loop() *render.Loop {
	return p.loop
}

// last reported progress in percent
func (p *Player) Progress() float64 {
	return p.progress
}

// registers fn to receive progress percentages on each clock advance
func (p *Player) OnProgress(fn func(percent float64)) {
	p.controller.OnProgress(fn)
}

// replaces the current media with path. On failure the player is left
// without media.
func (p *Player) LoadVideo(ctx context.Context, path string) error {
	if p.element != nil {
		_ = p.element.Close()
		p.element = nil
	}

	el := p.newElement()
	p.controller.Attach(el)
	if err := el.Load(ctx, path); err != nil {
		_ = el.Close()
		return fmt.Errorf("failed to load video %s: %w", path, err)
	}
	p.element = el
	p.session.SetMediaPath(path)
	p.loop.Reset()

	w, h := el.VideoSize()
	p.logger.Infow("Video loaded",
		"path", path,
		"width", w,
		"height", h,
		"duration", el.Duration(),
	)
	return nil
}

// loads a subtitle file into the session; the previous cues stay active on
// failure
func (p *Player) LoadSubtitles(path string) (int, error) {
	return p.session.LoadSubtitleFile(path)
}

func (p *Player) TogglePlayPause() error {
	return p.controller.TogglePlayPause()
}

func (p *Player) Seek(fraction float64) error {
	return p.controller.Seek(fraction)
}

func (p *Player) Resize(width, height float64) {
	p.loop.Resize(width, height)
}

// advances the media clock by one frame; the caller then runs the scheduled
// render tick
func (p *Player) Advance() error {
	if p.element == nil {
		return nil
	}
	return p.element.Advance()
}

func (p *Player) Close() error {
	if p.element == nil {
		return nil
	}
	err := p.element.Close()
	p.element = nil
	return err
}

func (p *Player) Frame() image.Image {
	if p.element == nil {
		return nil
	}
	return p.element.Frame()
}

func (p *Player) VideoSize() (int, int) {
	if p.element == nil {
		return 0, 0
	}
	return p.element.VideoSize()
}

func (p *Player) CurrentTime() float64 {
	if p.element == nil {
		return 0
	}
	return p.element.CurrentTime()
}
