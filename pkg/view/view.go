package view

import (
	"math"

	"github.com/jmerkel/nodepad/pkg/vec"
)

const (
	// DefaultScale is the initial zoom level in screen units per world unit.
	DefaultScale = 20.0

	// DefaultSmoothness is the interpolation factor [Transform.CenterOn]
	// falls back to when given a factor outside (0, 1].
	DefaultSmoothness = 0.3
)

// Transform is the affine mapping between world space, where node positions
// live, and screen space, where pointer events arrive. A point w in world
// space appears on screen at w*Scale + Translation.
type Transform struct {
	Scale       float64
	Translation vec.Vector
}

// New returns a transform at the default zoom level with no translation.
func New() *Transform {
	return &Transform{Scale: DefaultScale, Translation: vec.Zero(2)}
}

// ToScreen maps a world point to screen coordinates.
func (t *Transform) ToScreen(world vec.Vector) vec.Vector {
	return world.Scale(t.Scale).Add(t.Translation)
}

// ToWorld maps a screen point to world coordinates. It is the exact
// inverse of [Transform.ToScreen].
func (t *Transform) ToWorld(screen vec.Vector) vec.Vector {
	return screen.Sub(t.Translation).Div(t.Scale)
}

// Pan shifts the view by a world-space delta, as produced by dragging the
// canvas: a drag of delta world units moves the content by delta*Scale
// screen units.
func (t *Transform) Pan(delta vec.Vector) {
	t.Translation = t.Translation.Add(delta.Scale(t.Scale))
}

// Zoom rescales the view by 2^log2Delta. The world point currently under
// screenAnchor stays at the same screen position, so zooming follows the
// pointer instead of the origin.
func (t *Transform) Zoom(screenAnchor vec.Vector, log2Delta float64) {
	anchor := t.ToWorld(screenAnchor)
	previous := t.Scale
	t.Scale *= math.Exp2(log2Delta)
	t.Translation = t.Translation.Sub(anchor.Scale(t.Scale - previous))
}

// CenterOn moves the view a fraction of the way toward placing the world
// point at the middle of a viewport of the given size in screen units.
// Smoothness picks the fraction: 1 snaps immediately, smaller values ease
// in across repeated calls. Factors outside (0, 1] use
// [DefaultSmoothness].
func (t *Transform) CenterOn(viewport, world vec.Vector, smoothness float64) {
	if smoothness <= 0 || smoothness > 1 {
		smoothness = DefaultSmoothness
	}
	middle := t.ToWorld(viewport.Scale(0.5))
	t.Translation = t.Translation.Add(middle.Sub(world).Scale(smoothness * t.Scale))
}
