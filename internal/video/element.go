package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/mgpai22/subcanvas/internal/playback"
)

var ErrNotLoaded = errors.New("no media loaded")

// Element is a headless media element. Its clock advances by one frame each
// time Advance is called while playing, and it raises the same lifecycle
// notifications a browser video element would.
type Element struct {
	proc      Processor
	fps       float64
	ctx       context.Context
	info      *Info
	dec       FrameReader
	frame     image.Image
	current   float64
	playing   bool
	ended     bool
	listeners map[playback.Event][]func()
}

func NewElement(proc Processor, fps float64) *Element {
	if fps <= 0 {
		fps = 30
	}
	return &Element{
		proc:      proc,
		fps:       fps,
		listeners: make(map[playback.Event][]func()),
	}
}

func (e *Element) On(event playback.Event, fn func()) {
	e.listeners[event] = append(e.listeners[event], fn)
}

func (e *Element) emit(event playback.Event) {
	for _, fn := range e.listeners[event] {
		fn()
	}
}

// probes path, decodes the first frame and raises canplay
func (e *Element) Load(ctx context.Context, path string) error {
	info, err := e.proc.GetInfo(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}

	e.closeDecoder()
	e.ctx = ctx
	e.info = info
	e.current = 0
	e.playing = false
	e.ended = false

	if err := e.openAt(0); err != nil {
		return err
	}
	e.emit(playback.EventCanPlay)
	return nil
}

func (e *Element) Play() error {
	if e.info == nil {
		return ErrNotLoaded
	}
	if e.ended {
		if err := e.openAt(0); err != nil {
			return err
		}
		e.current = 0
		e.ended = false
	}
	e.playing = true
	e.emit(playback.EventPlay)
	return nil
}

func (e *Element) Pause() error {
	if e.info == nil {
		return ErrNotLoaded
	}
	e.playing = false
	e.emit(playback.EventPause)
	return nil
}

func (e *Element) Playing() bool {
	return e.playing
}

func (e *Element) Ended() bool {
	return e.ended
}

func (e *Element) CurrentTime() float64 {
	return e.current
}

func (e *Element) Duration() float64 {
	if e.info == nil {
		return 0
	}
	return e.info.Duration.Seconds()
}

// seeks by restarting the decoder at seconds
func (e *Element) SetCurrentTime(seconds float64) error {
	if e.info == nil {
		return ErrNotLoaded
	}
	if seconds < 0 {
		seconds = 0
	}
	if d := e.Duration(); d > 0 && seconds > d {
		seconds = d
	}

	if err := e.openAt(seconds); err != nil {
		return err
	}
	e.current = seconds
	e.ended = false
	e.emit(playback.EventTimeUpdate)
	return nil
}

func (e *Element) Frame() image.Image {
	return e.frame
}

func (e *Element) VideoSize() (int, int) {
	if e.info == nil {
		return 0, 0
	}
	return e.info.Width, e.info.Height
}

// Advance moves the clock forward by one frame while playing. Reaching the
// end of the stream stops playback and raises ended.
func (e *Element) Advance() error {
	if !e.playing || e.dec == nil {
		return nil
	}

	frame, err := e.dec.Next()
	if errors.Is(err, io.EOF) {
		e.playing = false
		e.ended = true
		if d := e.Duration(); d > e.current {
			e.current = d
		}
		e.emit(playback.EventTimeUpdate)
		e.emit(playback.EventEnded)
		return nil
	}
	if err != nil {
		e.playing = false
		e.emit(playback.EventPause)
		return err
	}

	e.frame = frame
	e.current += 1 / e.fps
	e.emit(playback.EventTimeUpdate)
	return nil
}

func (e *Element) Close() error {
	e.closeDecoder()
	return nil
}

// restarts decoding at seconds and shows the first frame found there
func (e *Element) openAt(seconds float64) error {
	e.closeDecoder()

	dec, err := e.proc.OpenDecoder(e.ctx, e.info, seconds, e.fps)
	if err != nil {
		return fmt.Errorf("failed to open decoder: %w", err)
	}
	e.dec = dec

	frame, err := dec.Next()
	switch {
	case errors.Is(err, io.EOF):
		// seeking to the very end leaves the previous frame on screen
	case err != nil:
		return err
	default:
		e.frame = frame
	}
	return nil
}

func (e *Element) closeDecoder() {
	if e.dec != nil {
		_ = e.dec.Close()
		e.dec = nil
	}
}
