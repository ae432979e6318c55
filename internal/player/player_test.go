package player

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/mgpai22/subcanvas/internal/canvas"
	"github.com/mgpai22/subcanvas/internal/geometry"
	"github.com/mgpai22/subcanvas/internal/playback"
	"github.com/mgpai22/subcanvas/internal/render"
)

// in-memory element: a grey frame every 1/fps seconds for duration seconds
type fakeElement struct {
	width     int
	height    int
	fps       float64
	duration  float64
	current   float64
	playing   bool
	loaded    bool
	closed    bool
	frame     *image.RGBA
	listeners map[playback.Event][]func()
}

func newFakeElement(duration float64) *fakeElement {
	return newSizedElement(duration, 160, 90)
}

func newSizedElement(duration float64, width, height int) *fakeElement {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range frame.Pix {
		frame.Pix[i] = 0x80
	}
	return &fakeElement{
		width:     width,
		height:    height,
		fps:       10,
		duration:  duration,
		frame:     frame,
		listeners: map[playback.Event][]func(){},
	}
}

func (e *fakeElement) On(ev playback.Event, fn func()) {
	e.listeners[ev] = append(e.listeners[ev], fn)
}

func (e *fakeElement) emit(ev playback.Event) {
	for _, fn := range e.listeners[ev] {
		fn()
	}
}

func (e *fakeElement) Load(context.Context, string) error {
	e.loaded = true
	e.emit(playback.EventCanPlay)
	return nil
}

func (e *fakeElement) Play() error {
	e.playing = true
	e.emit(playback.EventPlay)
	return nil
}

func (e *fakeElement) Pause() error {
	e.playing = false
	e.emit(playback.EventPause)
	return nil
}

func (e *fakeElement) CurrentTime() float64 { return e.current }
func (e *fakeElement) Duration() float64    { return e.duration }

func (e *fakeElement) SetCurrentTime(s float64) error {
	e.current = s
	e.emit(playback.EventTimeUpdate)
	return nil
}

func (e *fakeElement) Frame() image.Image {
	if !e.loaded {
		return nil
	}
	return e.frame
}

func (e *fakeElement) VideoSize() (int, int) { return e.width, e.height }

func (e *fakeElement) Advance() error {
	if !e.playing {
		return nil
	}
	next := e.current + 1/e.fps
	if next >= e.duration {
		e.current = e.duration
		e.playing = false
		e.emit(playback.EventTimeUpdate)
		e.emit(playback.EventEnded)
		return nil
	}
	e.current = next
	e.emit(playback.EventTimeUpdate)
	return nil
}

func (e *fakeElement) Close() error {
	e.closed = true
	return nil
}

type testPlayer struct {
	*Player
	el     *fakeElement
	sched  *render.StepScheduler
	canvas *canvas.Canvas
}

func newTestPlayer(t *testing.T, duration float64) *testPlayer {
	t.Helper()
	c, err := canvas.New(320, 180, 1, 24)
	if err != nil {
		t.Fatalf("canvas.New failed: %v", err)
	}
	el := newFakeElement(duration)
	sched := render.NewStepScheduler()
	p := New(Options{
		Surface:    c,
		Scheduler:  sched,
		Style:      render.DefaultStyle(),
		NewElement: func() Element { return el },
	})
	return &testPlayer{Player: p, el: el, sched: sched, canvas: c}
}

func writeSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subs.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write subtitles: %v", err)
	}
	return path
}

// counts bright pixels in the band where subtitles are drawn
func subtitlePixels(img *image.RGBA) int {
	lit := 0
	b := img.Bounds()
	for y := int(float64(b.Dy()) * 0.7); y < b.Max.Y; y++ {
		for x := 0; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R > 0xC0 && c.G > 0xC0 && c.B > 0xC0 {
				lit++
			}
		}
	}
	return lit
}

const sampleSRT = `1
00:00:01,000 --> 00:00:02,000
Hello

2
00:00:50,000 --> 00:00:52,000
Midpoint
`

func TestPlayDrawsUntilEnd(t *testing.T) {
	p := newTestPlayer(t, 3)
	if _, err := p.LoadSubtitles(writeSRT(t, sampleSRT)); err != nil {
		t.Fatalf("LoadSubtitles failed: %v", err)
	}
	if err := p.LoadVideo(context.Background(), "clip.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}
	if p.Controller().State() != playback.StatePaused {
		t.Fatalf("expected paused after load, got %v", p.Controller().State())
	}
	if p.Session().MediaPath() != "clip.mp4" {
		t.Errorf("unexpected media path %q", p.Session().MediaPath())
	}

	if err := p.TogglePlayPause(); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	var sawSubtitle, sawBlank bool
	frames := 0
	for p.sched.Step() {
		frames++
		lit := subtitlePixels(p.canvas.Image())
		at := p.CurrentTime()
		switch {
		case at >= 1 && at < 2:
			if lit == 0 {
				t.Fatalf("expected subtitle at %vs", at)
			}
			sawSubtitle = true
		default:
			if lit != 0 {
				t.Fatalf("unexpected subtitle pixels at %vs", at)
			}
			sawBlank = true
		}
		if err := p.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if frames > 1000 {
			t.Fatal("render loop did not stop after the media ended")
		}
	}

	if !sawSubtitle || !sawBlank {
		t.Errorf("sawSubtitle=%v sawBlank=%v", sawSubtitle, sawBlank)
	}
	if p.Controller().State() != playback.StatePaused {
		t.Errorf("expected paused at end, got %v", p.Controller().State())
	}
	if p.Progress() != 100 {
		t.Errorf("expected progress 100, got %v", p.Progress())
	}
}

func TestSeekWhilePausedRedrawsOnce(t *testing.T) {
	p := newTestPlayer(t, 100)
	if _, err := p.LoadSubtitles(writeSRT(t, sampleSRT)); err != nil {
		t.Fatalf("LoadSubtitles failed: %v", err)
	}
	if err := p.LoadVideo(context.Background(), "clip.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}
	// the load itself schedules one redraw
	for p.sched.Step() {
	}

	if err := p.Seek(0.505); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if p.CurrentTime() != 50.5 {
		t.Fatalf("expected 50.5s, got %v", p.CurrentTime())
	}
	if !p.sched.Step() {
		t.Fatal("expected a redraw after seek")
	}
	if p.sched.Step() {
		t.Fatal("expected the loop to stop after one redraw while paused")
	}
	if subtitlePixels(p.canvas.Image()) == 0 {
		t.Error("expected the cue at the seek target to be drawn")
	}
	if p.Progress() != 50.5 {
		t.Errorf("expected progress 50.5, got %v", p.Progress())
	}
}

func TestReloadSubtitlesReplacesCues(t *testing.T) {
	p := newTestPlayer(t, 100)
	if _, err := p.LoadSubtitles(writeSRT(t, sampleSRT)); err != nil {
		t.Fatalf("LoadSubtitles failed: %v", err)
	}
	if err := p.LoadVideo(context.Background(), "clip.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}

	replacement := `1
00:00:10,000 --> 00:00:11,000
Other
`
	if _, err := p.LoadSubtitles(writeSRT(t, replacement)); err != nil {
		t.Fatalf("LoadSubtitles failed: %v", err)
	}

	_ = p.Seek(0.015)
	for p.sched.Step() {
	}
	if subtitlePixels(p.canvas.Image()) != 0 {
		t.Error("cue from the previous file is still drawn")
	}
}

func TestTogglePauseStopsLoop(t *testing.T) {
	p := newTestPlayer(t, 100)
	if err := p.LoadVideo(context.Background(), "clip.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}
	_ = p.TogglePlayPause()

	for i := 0; i < 5; i++ {
		if !p.sched.Step() {
			t.Fatalf("tick %d: loop stopped while playing", i)
		}
		_ = p.Advance()
	}

	if err := p.TogglePlayPause(); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	ticks := p.Loop().Ticks()
	for p.sched.Step() {
	}
	if got := p.Loop().Ticks() - ticks; got != 1 {
		t.Errorf("expected exactly one redraw after pause, got %d", got)
	}
}

func TestToggleWithoutMediaIsNoop(t *testing.T) {
	p := newTestPlayer(t, 10)
	if err := p.TogglePlayPause(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Seek(0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if p.sched.Pending() {
		t.Error("nothing should be scheduled without media")
	}
}

func TestLoadVideoClosesPrevious(t *testing.T) {
	c, _ := canvas.New(320, 180, 1, 24)
	var made []*fakeElement
	p := New(Options{
		Surface:   c,
		Scheduler: render.NewStepScheduler(),
		NewElement: func() Element {
			el := newFakeElement(5)
			made = append(made, el)
			return el
		},
	})

	_ = p.LoadVideo(context.Background(), "a.mp4")
	_ = p.LoadVideo(context.Background(), "b.mp4")

	if len(made) != 2 || !made[0].closed || made[1].closed {
		t.Errorf("expected first element closed only, got %+v", made)
	}
}

func TestLoadVideoRefitsGeometry(t *testing.T) {
	c, _ := canvas.New(320, 180, 1, 24)
	sched := render.NewStepScheduler()
	sizes := [][2]int{{160, 90}, {90, 160}}
	p := New(Options{
		Surface:   c,
		Scheduler: sched,
		NewElement: func() Element {
			size := sizes[0]
			sizes = sizes[1:]
			return newSizedElement(100, size[0], size[1])
		},
	})

	if err := p.LoadVideo(context.Background(), "landscape.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}
	_ = p.TogglePlayPause()
	sched.Step()
	_ = p.TogglePlayPause()
	drain(sched)

	if err := p.LoadVideo(context.Background(), "portrait.mp4"); err != nil {
		t.Fatalf("LoadVideo failed: %v", err)
	}
	_ = p.Seek(0.5)
	drain(sched)

	r, ok := p.Loop().Geometry()
	want := geometry.Rect{X: 109.375, Y: 0, Width: 101.25, Height: 180}
	if !ok || r != want {
		t.Errorf("geometry = %+v, want %+v", r, want)
	}
}

func drain(sched *render.StepScheduler) {
	for sched.Step() {
	}
}
