// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"goq3bsp/math/vec"
)

// Model is anything the registry can load: maps and md3 meshes.
type Model interface {
	Name() string
	Mins() vec.Vec3
	Maxs() vec.Vec3
}
