// Package interact handles pan and zoom of the floor view.
package interact

import (
	"gioui.org/io/pointer"
	"gioui.org/layout"
)

const (
	minZoom = 5   // Pixels per meter
	maxZoom = 500
)

// Camera maps floor meters to screen pixels.
type Camera struct {
	OffsetX float32 // Pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // Pixels per meter

	// Fitted is cleared by Reset so the next frame refits the floor.
	Fitted bool

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera that fits the floor on its first frame.
func NewCamera() *Camera {
	return &Camera{Zoom: 60}
}

// Reset refits the floor on the next frame.
func (c *Camera) Reset() {
	c.Fitted = false
}

// WorldToScreen converts floor coordinates to screen coordinates.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen coordinates to floor coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// HandleEvent pans on secondary-button drag and zooms on scroll.
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		c.dragging = ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary)
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.OffsetX += ev.Position.X - c.lastX
			c.OffsetY += ev.Position.Y - c.lastY
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y == 0 {
			return
		}
		// Keep the floor point under the mouse fixed.
		worldX, worldY := c.ScreenToWorld(ev.Position.X, ev.Position.Y)
		if ev.Scroll.Y > 0 {
			c.Zoom /= 1.1
		} else {
			c.Zoom *= 1.1
		}
		c.Zoom = clampZoom(c.Zoom)
		newX, newY := c.WorldToScreen(worldX, worldY)
		c.OffsetX += ev.Position.X - newX
		c.OffsetY += ev.Position.Y - newY
	}
}

// FitBounds adjusts the camera so the given floor bounds fill the screen.
func (c *Camera) FitBounds(minX, minY, maxX, maxY float64, screenWidth, screenHeight float32, margin float32) {
	worldW := maxX - minX
	worldH := maxY - minY
	if worldW <= 0 {
		worldW = 1
	}
	if worldH <= 0 {
		worldH = 1
	}

	zoomX := (screenWidth - 2*margin) / float32(worldW)
	zoomY := (screenHeight - 2*margin) / float32(worldH)
	c.Zoom = clampZoom(min(zoomX, zoomY))

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	c.OffsetX = screenWidth/2 - float32(centerX)*c.Zoom
	c.OffsetY = screenHeight/2 - float32(centerY)*c.Zoom
	c.Fitted = true
}

func clampZoom(z float32) float32 {
	return max(minZoom, min(maxZoom, z))
}
