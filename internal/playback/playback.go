package playback

// media lifecycle notification
type Event string

const (
	EventCanPlay    Event = "canplay"
	EventPlay       Event = "play"
	EventPause      Event = "pause"
	EventTimeUpdate Event = "timeupdate"
	EventEnded      Event = "ended"
)

// playable media element as seen by the controller
type Media interface {
	Play() error
	Pause() error
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64
	On(event Event, fn func())
}

type State int

const (
	StateIdle State = iota
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
