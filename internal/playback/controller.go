package playback

import (
	"fmt"
	"math"
)

// Controller tracks play/pause state for the attached media and turns clock
// advances into progress percentages.
//
// Idle becomes Paused once the media reports canplay. From there play and
// pause (or the end of the media) move between Paused and Playing. Only a new
// Attach returns the controller to Idle.
type Controller struct {
	media      Media
	state      State
	onProgress []func(percent float64)
	onState    []func(State)
	onRedraw   []func()
}

func NewController() *Controller {
	return &Controller{}
}

// binds the controller to freshly loaded media. Notifications from previously
// attached media are ignored.
func (c *Controller) Attach(m Media) {
	c.media = m
	c.setState(StateIdle)

	m.On(EventCanPlay, func() {
		if c.media != m {
			return
		}
		if c.state == StateIdle {
			c.setState(StatePaused)
		}
		c.redraw()
	})
	m.On(EventPlay, func() {
		if c.media == m && c.state != StateIdle {
			c.setState(StatePlaying)
		}
	})
	m.On(EventPause, func() {
		if c.media == m && c.state == StatePlaying {
			c.setState(StatePaused)
		}
	})
	m.On(EventEnded, func() {
		if c.media == m && c.state == StatePlaying {
			c.setState(StatePaused)
		}
	})
	m.On(EventTimeUpdate, func() {
		if c.media == m {
			c.progress()
		}
	})
}

func (c *Controller) State() State {
	return c.state
}

// reports whether playback is active
func (c *Controller) Playing() bool {
	return c.state == StatePlaying
}

// plays when paused and pauses when playing. Does nothing until media has
// loaded.
func (c *Controller) TogglePlayPause() error {
	switch c.state {
	case StatePaused:
		if err := c.media.Play(); err != nil {
			return fmt.Errorf("play failed: %w", err)
		}
	case StatePlaying:
		if err := c.media.Pause(); err != nil {
			return fmt.Errorf("pause failed: %w", err)
		}
	}
	return nil
}

// moves the clock to fraction of the media duration, clamped to [0, 1]
func (c *Controller) Seek(fraction float64) error {
	if c.state == StateIdle {
		return nil
	}
	if fraction < 0 || math.IsNaN(fraction) {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	if err := c.media.SetCurrentTime(c.media.Duration() * fraction); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}
	c.progress()
	c.redraw()
	return nil
}

// percentage of the media already played, in [0, 100]
func (c *Controller) Progress() float64 {
	if c.media == nil {
		return 0
	}
	duration := c.media.Duration()
	if duration <= 0 {
		return 0
	}
	percent := c.media.CurrentTime() / duration * 100
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

func (c *Controller) OnProgress(fn func(percent float64)) {
	c.onProgress = append(c.onProgress, fn)
}

func (c *Controller) OnStateChange(fn func(State)) {
	c.onState = append(c.onState, fn)
}

// fn runs whenever the visible frame may have changed without playback
// running: after a seek, or once media becomes ready
func (c *Controller) OnRedraw(fn func()) {
	c.onRedraw = append(c.onRedraw, fn)
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	for _, fn := range c.onState {
		fn(s)
	}
}

func (c *Controller) progress() {
	percent := c.Progress()
	for _, fn := range c.onProgress {
		fn(percent)
	}
}

func (c *Controller) redraw() {
	for _, fn := range c.onRedraw {
		fn()
	}
}
