package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/vis/draw"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
)

const (
	scrubHeight = 64
	scrubMargin = 20
	scrubTrackH = 4
	markLen     = 10
	snapPixels  = 6 // Release within this distance of a tick lands on it
)

// Timeline is the event scrubber. Every action start is marked in its
// color, preparer above the track and server below, and a released drag
// snaps onto a nearby event tick.
type Timeline struct {
	state    *state.State
	dragging bool
	trackW   int
}

// NewTimeline creates the scrubber for st.
func NewTimeline(st *state.State) *Timeline {
	return &Timeline{state: st}
}

// Layout renders the scrubber.
func (t *Timeline) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	width := gtx.Constraints.Max.X
	t.trackW = max(width-2*scrubMargin, 1)
	pb := t.state.Playback
	mid := scrubHeight / 2

	paint.FillShape(gtx.Ops, color.NRGBA{R: 35, G: 38, B: 42, A: 255},
		clip.Rect(image.Rect(0, 0, width, scrubHeight)).Op())

	t.handlePointerEvents(gtx)

	paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255},
		clip.Rect(image.Rect(scrubMargin, mid-scrubTrackH/2, scrubMargin+t.trackW, mid+scrubTrackH/2)).Op())

	for _, sp := range t.state.Spans {
		x := t.xOf(sp.Start)
		mark := image.Rect(x, mid-scrubTrackH/2-markLen, x+2, mid-scrubTrackH/2)
		if sp.Agent == core.Server {
			mark = image.Rect(x, mid+scrubTrackH/2, x+2, mid+scrubTrackH/2+markLen)
		}
		col := draw.ActionColor(sp.Status.Action)
		if sp.Start > pb.CurrentTime+core.TimeTolerance {
			col.A = 110
		}
		paint.FillShape(gtx.Ops, col, clip.Rect(mark).Op())
	}

	if w := t.xOf(pb.CurrentTime) - scrubMargin; w > 0 {
		paint.FillShape(gtx.Ops, color.NRGBA{R: 100, G: 180, B: 255, A: 255},
			clip.Rect(image.Rect(scrubMargin, mid-scrubTrackH/2, scrubMargin+w, mid+scrubTrackH/2)).Op())
	}

	x := t.xOf(pb.CurrentTime)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		clip.Rect(image.Rect(x-1, mid-markLen-6, x+2, mid+markLen+6)).Op())

	t.layoutLabels(gtx, th)

	return layout.Dimensions{Size: image.Point{X: width, Y: scrubHeight}}
}

func (t *Timeline) xOf(at float64) int {
	return scrubMargin + int(float64(t.trackW)*t.state.Playback.Fraction(at))
}

func (t *Timeline) timeAt(screenX float32) float64 {
	pb := t.state.Playback
	frac := (float64(screenX) - scrubMargin) / float64(t.trackW)
	frac = max(0, min(1, frac))
	return pb.StartTime + frac*(pb.MaxTime-pb.StartTime)
}

// layoutLabels shows the clock, the tick count and what happens next.
func (t *Timeline) layoutLabels(gtx layout.Context, th *material.Theme) {
	pb := t.state.Playback

	clock := material.Label(th, 12, fmt.Sprintf("%.1f / %.1fs", pb.CurrentTime, pb.MaxTime))
	clock.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

	ticks := material.Label(th, 12, fmt.Sprintf("tick %d/%d  %.1fx", t.tickIndex(), len(t.state.Ticks), pb.Speed))
	ticks.Color = color.NRGBA{R: 150, G: 180, B: 200, A: 255}

	next := "plan complete"
	if sp, ok := t.state.NextStart(pb.CurrentTime); ok {
		next = fmt.Sprintf("next %.1fs: %s %s", sp.Start, sp.Agent, barText(sp.Status))
	} else if len(t.state.Spans) == 0 {
		next = "no plan"
	}
	upcoming := material.Label(th, 12, next)
	upcoming.Color = color.NRGBA{R: 150, G: 150, B: 150, A: 255}

	layout.Inset{Top: unit.Dp(2), Left: unit.Dp(scrubMargin), Right: unit.Dp(scrubMargin)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(clock.Layout),
			layout.Rigid(ticks.Layout),
			layout.Rigid(upcoming.Layout),
		)
	})
}

// tickIndex counts the event ticks at or before the playback time.
func (t *Timeline) tickIndex() int {
	n := 0
	for _, tick := range t.state.Ticks {
		if tick <= t.state.Playback.CurrentTime+core.TimeTolerance {
			n++
		}
	}
	return n
}

func (t *Timeline) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, scrubHeight)).Push(gtx.Ops)
	event.Op(gtx.Ops, t)
	area.Pop()

	pb := t.state.Playback
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: t,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			t.dragging = true
			pb.Pause()
			pb.SetTime(t.timeAt(pe.Position.X))
		case pointer.Drag:
			if t.dragging {
				pb.SetTime(t.timeAt(pe.Position.X))
			}
		case pointer.Release:
			t.dragging = false
			if tick, ok := pb.NearestTick(pb.CurrentTime); ok {
				if d := t.xOf(tick) - t.xOf(pb.CurrentTime); d >= -snapPixels && d <= snapPixels {
					pb.SetTime(tick)
				}
			}
		}
	}
}
