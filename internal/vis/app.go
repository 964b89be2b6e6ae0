// Package vis implements a Gio-based viewer for café plans.
package vis

import (
	"image/color"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/sim"
	"github.com/elektrokombinacija/barista-planner/internal/vis/interact"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
	"github.com/elektrokombinacija/barista-planner/internal/vis/widgets"
)

// App is the main visualization application.
type App struct {
	state    *state.State
	theme    *material.Theme
	floor    *widgets.Floor
	lanes    *widgets.Lanes
	timeline *widgets.Timeline
	toolbar  *widgets.Toolbar
	camera   *interact.Camera
}

// NewApp creates a viewer for result, a search run on p. The plan is
// replayed through model so every event tick can be shown.
func NewApp(p *core.Problem, result *core.Result, model *sim.Model) (*App, error) {
	st, err := state.NewState(p, result, model)
	if err != nil {
		return nil, err
	}
	camera := interact.NewCamera()

	toolbar := widgets.NewToolbar(st)
	toolbar.OnFit = camera.Reset

	return &App{
		state:    st,
		theme:    material.NewTheme(),
		floor:    widgets.NewFloor(st, camera),
		lanes:    widgets.NewLanes(st),
		timeline: widgets.NewTimeline(st),
		toolbar:  toolbar,
		camera:   camera,
	}, nil
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	// Event filters for keyboard input
	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag, Optional: key.ModShift})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}

			// Request focus for keyboard input
			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			// Request continuous redraws during playback
			if a.state.Playback.Playing {
				a.state.Playback.Advance()
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	pb := a.state.Playback
	switch e.Name {
	case key.NameSpace:
		pb.TogglePlay()
	case key.NameLeftArrow:
		pb.StepBack()
	case key.NameRightArrow:
		pb.StepForward()
	case key.NameHome:
		pb.Reset()
	case key.NameEnd:
		pb.SetTime(pb.MaxTime)
	case "+":
		pb.SetSpeed(pb.Speed * 1.5)
	case "-":
		pb.SetSpeed(pb.Speed / 1.5)
	case "R":
		a.camera.Reset()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.floor.Layout(gtx, a.theme)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.lanes.Layout(gtx, a.theme)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.timeline.Layout(gtx, a.theme)
		}),
	)
}
