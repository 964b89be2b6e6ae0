package state

import (
	"sort"
	"time"
)

// PlaybackState manages plan playback timing.
type PlaybackState struct {
	CurrentTime float64   // Current playback time in seconds
	StartTime   float64   // Time of the initial state
	MaxTime     float64   // Time the goal is reached
	Ticks       []float64 // Event ticks, ascending
	Speed       float64   // Playback speed multiplier (1.0 = real-time)
	Playing     bool
	lastUpdate  time.Time
}

// NewPlaybackState creates a playback over [start, end].
func NewPlaybackState(start, end float64) *PlaybackState {
	if end < start {
		end = start
	}
	return &PlaybackState{
		CurrentTime: start,
		StartTime:   start,
		MaxTime:     end,
		Speed:       1.0,
		lastUpdate:  time.Now(),
	}
}

// TogglePlay toggles playback on/off.
func (p *PlaybackState) TogglePlay() {
	p.Playing = !p.Playing
	if p.Playing {
		p.lastUpdate = time.Now()
		// Reset to start if at end
		if p.CurrentTime >= p.MaxTime {
			p.CurrentTime = p.StartTime
		}
	}
}

// Pause stops playback.
func (p *PlaybackState) Pause() {
	p.Playing = false
}

// Reset rewinds to the initial state.
func (p *PlaybackState) Reset() {
	p.CurrentTime = p.StartTime
	p.Playing = false
}

// Advance advances playback by elapsed time since last update.
func (p *PlaybackState) Advance() {
	if !p.Playing {
		return
	}

	now := time.Now()
	p.advanceBy(now.Sub(p.lastUpdate).Seconds())
	p.lastUpdate = now
}

func (p *PlaybackState) advanceBy(wall float64) {
	p.CurrentTime += wall * p.Speed
	if p.CurrentTime >= p.MaxTime {
		p.CurrentTime = p.MaxTime
		p.Playing = false
	}
}

// SetTime sets the current playback time.
func (p *PlaybackState) SetTime(t float64) {
	if t < p.StartTime {
		t = p.StartTime
	}
	if t > p.MaxTime {
		t = p.MaxTime
	}
	p.CurrentTime = t
}

// StepForward jumps to the next event tick.
func (p *PlaybackState) StepForward() {
	p.Pause()
	i := sort.SearchFloat64s(p.Ticks, p.CurrentTime+tickEpsilon)
	if i < len(p.Ticks) {
		p.SetTime(p.Ticks[i])
		return
	}
	p.SetTime(p.MaxTime)
}

// StepBack jumps to the previous event tick.
func (p *PlaybackState) StepBack() {
	p.Pause()
	i := sort.SearchFloat64s(p.Ticks, p.CurrentTime-tickEpsilon)
	if i > 0 {
		p.SetTime(p.Ticks[i-1])
		return
	}
	p.SetTime(p.StartTime)
}

const tickEpsilon = 1e-6

// NearestTick returns the event tick closest to t.
func (p *PlaybackState) NearestTick(t float64) (float64, bool) {
	if len(p.Ticks) == 0 {
		return 0, false
	}
	i := sort.SearchFloat64s(p.Ticks, t)
	switch {
	case i == 0:
		return p.Ticks[0], true
	case i == len(p.Ticks):
		return p.Ticks[i-1], true
	case t-p.Ticks[i-1] <= p.Ticks[i]-t:
		return p.Ticks[i-1], true
	default:
		return p.Ticks[i], true
	}
}

// SetSpeed sets the playback speed multiplier.
func (p *PlaybackState) SetSpeed(speed float64) {
	if speed < 0.1 {
		speed = 0.1
	}
	if speed > 10 {
		speed = 10
	}
	p.Speed = speed
}

// Progress returns current progress as 0-1.
func (p *PlaybackState) Progress() float64 {
	return p.Fraction(p.CurrentTime)
}

// Fraction maps a plan time onto 0-1.
func (p *PlaybackState) Fraction(t float64) float64 {
	span := p.MaxTime - p.StartTime
	if span <= 0 {
		return 0
	}
	return (t - p.StartTime) / span
}
