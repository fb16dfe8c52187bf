// Package playback animates a transition plan over wall-clock time and
// pushes interpolated positions to a rendering sink.
package playback

import (
	"errors"
	"fmt"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// CubicBezier returns the easing for the CSS-style curve through (0,0),
// (x1,y1), (x2,y2), (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		s := solveBezier(t, x1, x2)
		return bezier(s, y1, y2)
	}
}

// FastOutSlowIn is cubic-bezier(0.4, 0, 0.2, 1).
var FastOutSlowIn = CubicBezier(0.4, 0, 0.2, 1)

func bezier(s, p1, p2 float64) float64 {
	u := 1 - s
	return 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s
}

func bezierSlope(s, p1, p2 float64) float64 {
	u := 1 - s
	return 3*u*u*p1 + 6*u*s*(p2-p1) + 3*s*s*(1-p2)
}

// solveBezier finds s with bezier(s, x1, x2) == x. x(s) is monotonic for
// control points in [0,1]. Newton first, bisection if it stalls.
func solveBezier(x, x1, x2 float64) float64 {
	const eps = 1e-7

	s := x
	for range 8 {
		dx := bezier(s, x1, x2) - x
		if dx < eps && dx > -eps {
			return s
		}
		d := bezierSlope(s, x1, x2)
		if d < 1e-6 && d > -1e-6 {
			break
		}
		s -= dx / d
		if s < 0 || s > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	s = x
	for range 64 {
		v := bezier(s, x1, x2)
		if v-x < eps && x-v < eps {
			break
		}
		if v < x {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

// ErrInvalidSpec is returned for negative durations, missing easings and
// unknown easing names.
var ErrInvalidSpec = errors.New("playback: invalid animation spec")

// DefaultDuration is the enter and exit duration when none is configured.
const DefaultDuration = 300 * time.Millisecond

// Spec is a finite animation: how long and with what curve.
type Spec struct {
	Duration time.Duration
	Easing   Easing
}

// DefaultSpec is 300ms of FastOutSlowIn.
var DefaultSpec = Spec{Duration: DefaultDuration, Easing: FastOutSlowIn}

// NewSpec validates and builds a Spec.
func NewSpec(d time.Duration, e Easing) (Spec, error) {
	if d < 0 {
		return Spec{}, fmt.Errorf("%w: negative duration %v", ErrInvalidSpec, d)
	}
	if e == nil {
		return Spec{}, fmt.Errorf("%w: nil easing", ErrInvalidSpec)
	}
	return Spec{Duration: d, Easing: e}, nil
}

// EasingByName resolves "linear" or "fast-out-slow-in".
func EasingByName(name string) (Easing, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "fast-out-slow-in", "":
		return FastOutSlowIn, nil
	default:
		return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidSpec, name)
	}
}

// progress returns eased progress at elapsed.
func (s Spec) progress(elapsed time.Duration) (eased float64, done bool) {
	if s.Duration <= 0 || elapsed >= s.Duration {
		return 1, true
	}
	if elapsed <= 0 {
		return s.Easing(0), false
	}
	return s.Easing(float64(elapsed) / float64(s.Duration)), false
}
