// Package draw provides rendering functions for visualization.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/barista-planner/internal/vis/interact"
	"github.com/elektrokombinacija/barista-planner/internal/vis/state"
)

// Floor colors
var (
	ColorTable      = color.NRGBA{R: 100, G: 120, B: 140, A: 255}
	ColorDepot      = color.NRGBA{R: 80, G: 180, B: 100, A: 255}
	ColorDirty      = color.NRGBA{R: 190, G: 120, B: 60, A: 255}
	ColorAisle      = color.NRGBA{R: 80, G: 90, B: 100, A: 180}
	ColorWalkTarget = color.NRGBA{R: 150, G: 170, B: 190, A: 255}
)

// DrawAisle draws the walkway between two locations.
func DrawAisle(gtx layout.Context, p1, p2 state.Pos, camera *interact.Camera, col color.NRGBA) {
	x1, y1 := camera.WorldToScreen(p1.X, p1.Y)
	x2, y2 := camera.WorldToScreen(p2.X, p2.Y)
	drawLine(gtx, x1, y1, x2, y2, 2, col)
}

// DrawLocation draws the depot as a square and tables as discs. Dirty
// tables get a ring.
func DrawLocation(gtx layout.Context, pos state.Pos, camera *interact.Camera, depot, dirty bool) {
	x, y := camera.WorldToScreen(pos.X, pos.Y)
	if depot {
		drawSquare(gtx, x, y, 28, ColorDepot)
		return
	}
	drawFilledCircle(gtx, x, y, 14, ColorTable)
	if dirty {
		DrawCircleOutline(gtx, x, y, 20, ColorDirty, 4)
	}
}

// DrawCircleOutline draws a circle outline.
func DrawCircleOutline(gtx layout.Context, centerX, centerY float32, radius float32, col color.NRGBA, strokeWidth float32) {
	var p clip.Path
	p.Begin(gtx.Ops)
	circle(&p, centerX, centerY, radius, 24)
	// Inner circle (hole)
	circle(&p, centerX, centerY, max(radius-strokeWidth, 0), 24)
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
}

// DrawGrid draws a background grid with gridSize meters spacing.
func DrawGrid(gtx layout.Context, camera *interact.Camera, gridSize float64, col color.NRGBA) {
	bounds := gtx.Constraints.Max

	minWorldX, minWorldY := camera.ScreenToWorld(0, 0)
	maxWorldX, maxWorldY := camera.ScreenToWorld(float32(bounds.X), float32(bounds.Y))

	for x := math.Floor(minWorldX/gridSize) * gridSize; x <= maxWorldX; x += gridSize {
		sx, _ := camera.WorldToScreen(x, 0)
		rect := image.Rect(int(sx), 0, int(sx)+1, bounds.Y)
		paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
	}
	for y := math.Floor(minWorldY/gridSize) * gridSize; y <= maxWorldY; y += gridSize {
		_, sy := camera.WorldToScreen(0, y)
		rect := image.Rect(0, int(sy), bounds.X, int(sy)+1)
		paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
	}
}

func circle(p *clip.Path, cx, cy, radius float32, segments int) {
	p.MoveTo(f32.Pt(cx+radius, cy))
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		p.LineTo(f32.Pt(cx+radius*float32(math.Cos(angle)), cy+radius*float32(math.Sin(angle))))
	}
	p.Close()
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var p clip.Path
	p.Begin(gtx.Ops)
	circle(&p, cx, cy, radius, 16)
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
}

func drawSquare(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	drawRectangle(gtx, cx, cy, size, size, col)
}

func drawRectangle(gtx layout.Context, cx, cy, width, height float32, col color.NRGBA) {
	halfW := width / 2
	halfH := height / 2
	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(f32.Pt(cx-halfW, cy-halfH))
	p.LineTo(f32.Pt(cx+halfW, cy-halfH))
	p.LineTo(f32.Pt(cx+halfW, cy+halfH))
	p.LineTo(f32.Pt(cx-halfW, cy+halfH))
	p.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	// Perpendicular for line width
	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var p clip.Path
	p.Begin(gtx.Ops)
	p.MoveTo(f32.Pt(x1+px, y1+py))
	p.LineTo(f32.Pt(x2+px, y2+py))
	p.LineTo(f32.Pt(x2-px, y2-py))
	p.LineTo(f32.Pt(x1-px, y1-py))
	p.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
}
