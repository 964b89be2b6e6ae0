package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/vis/draw"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
)

const (
	laneHeight  = 34
	laneGap     = 6
	laneLabelW  = 80
	laneMarginR = 20
)

// Lanes shows one row per agent with a bar for every action in the plan.
// Clicking a bar seeks to its start.
type Lanes struct {
	state *state.State
}

// NewLanes creates the agent lanes widget.
func NewLanes(st *state.State) *Lanes {
	return &Lanes{state: st}
}

// Layout renders both lanes and the playhead.
func (l *Lanes) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	height := 2*laneHeight + 3*laneGap
	width := gtx.Constraints.Max.X
	trackW := width - laneLabelW - laneMarginR

	paint.FillShape(gtx.Ops, color.NRGBA{R: 32, G: 35, B: 39, A: 255},
		clip.Rect(image.Rect(0, 0, width, height)).Op())

	l.handlePointerEvents(gtx, height, trackW)

	for i, agent := range []core.Agent{core.Preparer, core.Server} {
		top := laneGap + i*(laneHeight+laneGap)
		l.layoutLabel(gtx, th, agent.String(), top)

		track := image.Rect(laneLabelW, top, laneLabelW+trackW, top+laneHeight)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 45, G: 48, B: 53, A: 255}, clip.Rect(track).Op())

		for _, sp := range l.state.Spans {
			if sp.Agent != agent {
				continue
			}
			x0 := laneLabelW + int(float64(trackW)*l.state.Playback.Fraction(sp.Start))
			x1 := laneLabelW + int(float64(trackW)*l.state.Playback.Fraction(sp.End))
			if x1 <= x0 {
				x1 = x0 + 1
			}
			bar := image.Rect(x0, top+2, x1-1, top+laneHeight-2)
			paint.FillShape(gtx.Ops, draw.ActionColor(sp.Status.Action), clip.Rect(bar).Op())
			l.layoutBarLabel(gtx, th, sp, bar)
		}
	}

	// Playhead
	x := laneLabelW + int(float64(trackW)*l.state.Playback.Progress())
	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 220},
		clip.Rect(image.Rect(x-1, 0, x+1, height)).Op())

	return layout.Dimensions{Size: image.Point{X: width, Y: height}}
}

func (l *Lanes) layoutLabel(gtx layout.Context, th *material.Theme, text string, top int) {
	defer op.Offset(image.Pt(8, top+laneHeight/2-8)).Push(gtx.Ops).Pop()
	label := material.Label(th, 12, text)
	label.Color = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	label.Layout(gtx)
}

// layoutBarLabel names the action inside its bar when there is room.
func (l *Lanes) layoutBarLabel(gtx layout.Context, th *material.Theme, sp core.Span, bar image.Rectangle) {
	text := barText(sp.Status)
	if bar.Dx() < 7*len(text) {
		return
	}
	defer op.Offset(image.Pt(bar.Min.X+4, bar.Min.Y+bar.Dy()/2-8)).Push(gtx.Ops).Pop()
	defer clip.Rect(image.Rect(0, 0, bar.Dx()-4, bar.Dy())).Push(gtx.Ops).Pop()

	gtx.Constraints.Min = image.Point{}
	gtx.Constraints.Max = image.Pt(bar.Dx()-4, bar.Dy())
	label := material.Label(th, 11, text)
	label.Color = color.NRGBA{R: 20, G: 20, B: 25, A: 255}
	label.Layout(gtx)
}

func barText(st core.Status) string {
	switch st.Action {
	case core.Making, core.PickingUp, core.Delivering:
		return st.Action.String() + " " + string(st.Item.Dest) + " " + st.Item.Kind.String()
	case core.Moving, core.Cleaning:
		return st.Action.String() + " " + string(st.Place)
	default:
		return st.Action.String()
	}
}

func (l *Lanes) handlePointerEvents(gtx layout.Context, height, trackW int) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, height)).Push(gtx.Ops)
	event.Op(gtx.Ops, l)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{Target: l, Kinds: pointer.Press})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || trackW <= 0 {
			continue
		}
		lane := core.Preparer
		if int(pe.Position.Y) > laneGap+laneHeight {
			lane = core.Server
		}
		pb := l.state.Playback
		t := pb.StartTime + (float64(pe.Position.X)-laneLabelW)/float64(trackW)*(pb.MaxTime-pb.StartTime)
		if sp, ok := l.state.SpanAt(lane, t); ok {
			t = sp.Start
		}
		pb.Pause()
		pb.SetTime(t)
	}
}
