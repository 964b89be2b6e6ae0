// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/vis/draw"
	"github.com/elektrokombinacija/barista-planner/internal/vis/interact"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
)

// Floor is the top-down view of the café at the playback time.
type Floor struct {
	state  *state.State
	camera *interact.Camera
}

// NewFloor creates a new floor widget.
func NewFloor(st *state.State, camera *interact.Camera) *Floor {
	return &Floor{
		state:  st,
		camera: camera,
	}
}

// Layout renders the floor.
func (f *Floor) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	if !f.camera.Fitted {
		f.fit(bounds)
	}
	f.handlePointerEvents(gtx)

	draw.DrawGrid(gtx, f.camera, 1, color.NRGBA{R: 40, G: 45, B: 50, A: 255})

	env := f.state.Problem.Env
	locs := env.Locations()
	for i, a := range locs {
		for _, b := range locs[i+1:] {
			if _, ok := env.Distance(a, b); ok {
				draw.DrawAisle(gtx, f.state.Floor[a], f.state.Floor[b], f.camera, draw.ColorAisle)
			}
		}
	}

	snap := f.state.Current()
	dirty := make(map[core.Location]bool, len(snap.World.Dirty))
	for _, loc := range snap.World.Dirty {
		dirty[loc] = true
	}
	for _, loc := range locs {
		pos := f.state.Floor[loc]
		draw.DrawLocation(gtx, pos, f.camera, loc == env.Depot(), dirty[loc])
		f.layoutLocationLabel(gtx, th, loc, pos)
	}

	draw.DrawPreparer(gtx, snap, f.state.Floor[env.Depot()], f.camera)
	draw.DrawServer(gtx, snap, f.state.Floor, f.camera)

	return layout.Dimensions{Size: bounds}
}

func (f *Floor) layoutLocationLabel(gtx layout.Context, th *material.Theme, loc core.Location, pos state.Pos) {
	x, y := f.camera.WorldToScreen(pos.X, pos.Y)
	defer op.Offset(image.Pt(int(x)+22, int(y)-8)).Push(gtx.Ops).Pop()

	text := string(loc)
	if t := f.state.Problem.Env.CleanTime(loc); loc != f.state.Problem.Env.Depot() && t > 0 {
		text = fmt.Sprintf("%s (clean %.0fs)", loc, t)
	}
	gtx.Constraints.Min = image.Point{}
	label := material.Label(th, 12, text)
	label.Color = color.NRGBA{R: 180, G: 185, B: 190, A: 255}
	label.Layout(gtx)
}

// fit frames every location with a margin.
func (f *Floor) fit(bounds image.Point) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range f.state.Floor {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	f.camera.FitBounds(minX-1, minY-1, maxX+1, maxY+1, float32(bounds.X), float32(bounds.Y), 40)
}

func (f *Floor) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, f)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  f,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			f.camera.HandleEvent(gtx, pe)
		}
	}
}
