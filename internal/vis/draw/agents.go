package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/barista-planner/internal/core"
	"github.com/elektrokombinacija/barista-planner/internal/vis/interact"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
)

// Agent and drink colors
var (
	ColorServer   = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
	ColorPreparer = color.NRGBA{R: 255, G: 150, B: 100, A: 255}
	ColorTray     = color.NRGBA{R: 200, G: 200, B: 210, A: 255}
	ColorCold     = color.NRGBA{R: 120, G: 190, B: 255, A: 255}
	ColorHot      = color.NRGBA{R: 230, G: 90, B: 70, A: 255}
)

// ActionColor returns the lane color of an action.
func ActionColor(a core.ActionKind) color.NRGBA {
	switch a {
	case core.Making:
		return ColorPreparer
	case core.Moving:
		return color.NRGBA{R: 100, G: 140, B: 220, A: 255}
	case core.TakingTray, core.ReturningTray:
		return ColorTray
	case core.PickingUp:
		return color.NRGBA{R: 120, G: 200, B: 160, A: 255}
	case core.Delivering:
		return color.NRGBA{R: 80, G: 180, B: 100, A: 255}
	case core.Cleaning:
		return ColorDirty
	default:
		return color.NRGBA{R: 60, G: 65, B: 70, A: 255}
	}
}

// DrinkColor returns the dot color of a drink.
func DrinkColor(k core.Kind) color.NRGBA {
	if k == core.Hot {
		return ColorHot
	}
	return ColorCold
}

// DrawServer draws the server with its tray and the drinks it carries.
// While walking, the destination is marked.
func DrawServer(gtx layout.Context, snap state.Snapshot, floor map[core.Location]state.Pos, camera *interact.Camera) {
	x, y := camera.WorldToScreen(snap.Server.X, snap.Server.Y)

	if snap.Walking {
		dest := floor[snap.World.Server.Place]
		dx, dy := camera.WorldToScreen(dest.X, dest.Y)
		drawLine(gtx, x, y, dx, dy, 1, ColorWalkTarget)
	}

	if snap.World.Tray {
		drawRectangle(gtx, x, y+14, 34, 8, ColorTray)
	}
	drawFilledCircle(gtx, x, y, 10, ColorServer)
	DrawDrinks(gtx, x-10, y-20, snap.World.Carried)
}

// DrawPreparer draws the preparer behind the depot with the drinks
// pending and ready on the bar.
func DrawPreparer(gtx layout.Context, snap state.Snapshot, depot state.Pos, camera *interact.Camera) {
	x, y := camera.WorldToScreen(depot.X, depot.Y)
	x -= 36

	col := ColorPreparer
	if snap.World.Preparer.IsIdle() {
		col.A = 120
	}
	drawSquare(gtx, x, y, 18, col)

	// Orders as rings, ready drinks as dots.
	for i, it := range snap.World.Orders {
		DrawCircleOutline(gtx, x-12+float32(i)*10, y+28, 4, DrinkColor(it.Kind), 1.5)
	}
	DrawDrinks(gtx, x-12, y+40, snap.World.Prepared)
}

// DrawDrinks draws one dot per drink in a row starting at (x, y).
func DrawDrinks(gtx layout.Context, x, y float32, items []core.Item) {
	for i, it := range items {
		drawFilledCircle(gtx, x+float32(i)*10, y, 4, DrinkColor(it.Kind))
	}
}
