// Package vec provides the small n-dimensional vector kernel used by the
// graph model, the force simulation and the viewport mapping.
//
// Vectors are plain float64 slices. All operations return new vectors and
// leave their receivers untouched, so positions can be shared between the
// model and the simulation without copying. Operands must have the same
// dimension; mixing dimensions is a programming error and panics rather
// than producing a silently truncated result.
package vec

import (
	"fmt"
	"math"
	"strings"
)

// Vector is an n-dimensional vector. The zero value is the empty
// (0-dimensional) vector.
type Vector []float64

// New builds a vector from its components.
func New(components ...float64) Vector {
	v := make(Vector, len(components))
	copy(v, components)
	return v
}

// Zero returns the dim-dimensional zero vector.
func Zero(dim int) Vector {
	return make(Vector, dim)
}

// Splat returns a dim-dimensional vector with every component set to value.
func Splat(dim int, value float64) Vector {
	v := make(Vector, dim)
	for i := range v {
		v[i] = value
	}
	return v
}

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v) }

// At returns the i-th component.
func (v Vector) At(i int) float64 { return v[i] }

// X returns the first component. It panics on the empty vector.
func (v Vector) X() float64 { return v[0] }

// Y returns the second component. It panics on vectors with fewer than two
// components.
func (v Vector) Y() float64 { return v[1] }

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	w := make(Vector, len(v))
	copy(w, v)
	return w
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	assertSameDim(v, w)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + w[i]
	}
	return out
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	assertSameDim(v, w)
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - w[i]
	}
	return out
}

// Scale returns v with every component multiplied by k.
func (v Vector) Scale(k float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

// Div returns v with every component divided by k. Division by zero follows
// float64 semantics and yields infinities, it does not panic.
func (v Vector) Div(k float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] / k
	}
	return out
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return v.Scale(-1)
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	assertSameDim(v, w)
	var sum float64
	for i := range v {
		sum += v[i] * w[i]
	}
	return sum
}

// Len returns the Euclidean magnitude of v.
func (v Vector) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Dist returns the Euclidean distance between v and w.
func (v Vector) Dist(w Vector) float64 {
	return v.Sub(w).Len()
}

// Unit returns v scaled to magnitude 1. The zero vector has no direction and
// is returned unchanged.
func (v Vector) Unit() Vector {
	l := v.Len()
	if l == 0 {
		return v.Clone()
	}
	return v.Div(l)
}

// Rotated returns the 2-D vector v rotated counterclockwise by angle radians
// about pivot. It panics unless both vectors are 2-dimensional.
func (v Vector) Rotated(angle float64, pivot Vector) Vector {
	if len(v) != 2 || len(pivot) != 2 {
		panic(fmt.Sprintf("vec: rotation requires 2-D vectors, got %d-D and %d-D", len(v), len(pivot)))
	}
	sin, cos := math.Sincos(angle)
	dx := v[0] - pivot[0]
	dy := v[1] - pivot[1]
	return Vector{
		pivot[0] + dx*cos - dy*sin,
		pivot[1] + dx*sin + dy*cos,
	}
}

// AlmostEqual reports whether every component of v is within eps of the
// corresponding component of w. Vectors of different dimensions are never
// almost equal.
func (v Vector) AlmostEqual(w Vector, eps float64) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-w[i]) > eps {
			return false
		}
	}
	return true
}

// String formats v as "(x, y, ...)".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = fmt.Sprintf("%g", c)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Average returns the arithmetic mean of the given vectors. With no
// arguments it returns the empty vector.
func Average(vs ...Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	sum := vs[0].Clone()
	for _, v := range vs[1:] {
		sum = sum.Add(v)
	}
	return sum.Div(float64(len(vs)))
}

func assertSameDim(v, w Vector) {
	if len(v) != len(w) {
		panic(fmt.Sprintf("vec: dimension mismatch: %d-D and %d-D", len(v), len(w)))
	}
}
