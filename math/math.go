// SPDX-License-Identifier: GPL-2.0-or-later

// Package math holds the scalar helpers shared by the geometry passes.
package math

import (
	"github.com/chewxy/math32"
)

type Number interface {
	int64 | float64 | float32 | int
}

// Clamp limits val to [min,max].
func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// AngleMod changes an angle to be within 0-360 degrees
func AngleMod(a float32) float32 {
	return a - math32.Floor(a/360)*360
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// ColorByte rounds a blended color channel back into a byte.
func ColorByte(c float32) byte {
	return byte(Clamp(0, math32.Round(c), 255))
}
