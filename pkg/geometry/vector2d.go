package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by the zero-length guard of Normalize.
const (
	Epsilon = 1e-9
	TwoPi   = 2 * math.Pi
)

// ErrDegenerateVector is returned by Unit when the vector has no direction.
var ErrDegenerateVector = errors.New("degenerate vector: length is zero")

// Vector2D represents a 2D vector or point in world space.
// All methods use value receivers and return new values, so two logical vectors
// can never share storage: copying a Segment copies its position and velocity.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero is the additive identity.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// FromAngle returns the unit vector (cos θ, sin θ) pointing at theta radians.
func FromAngle(theta float64) Vector2D {
	return Vector2D{X: math.Cos(theta), Y: math.Sin(theta)}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// LenSqr calculates the squared magnitude of the vector. Use it for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
// Returns a zero vector if the length is effectively zero, never NaN.
func (v Vector2D) Normalize() Vector2D {
	u, err := v.Unit()
	if err != nil {
		return Zero
	}
	return u
}

// Unit is the checked form of Normalize.
func (v Vector2D) Unit() (Vector2D, error) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) {
		return Zero, ErrDegenerateVector
	}
	return Vector2D{v.X / l, v.Y / l}, nil
}

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}

// NormalizeAngle wraps theta into [0, 2π).
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(math.Mod(theta, TwoPi)+TwoPi, TwoPi)
	// tiny negative inputs round up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(b - a)
	if d > math.Pi {
		d -= TwoPi
	}
	return d
}
