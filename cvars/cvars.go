// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"log"

	"goq3bsp/conlog"
	"goq3bsp/cvar"
)

var (
	Developer      *cvar.Cvar
	RLightmapAtlas *cvar.Cvar
	RPicMip        *cvar.Cvar
	RSubdivisions  *cvar.Cvar
)

func developerChanged(cv *cvar.Cvar) {
	if cv.Bool() {
		conlog.SetDPrintf(log.Printf)
	} else {
		conlog.SetDPrintf(nil)
	}
}

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(developerChanged)
	// pack all lightmaps into one image and remap the coordinates
	RLightmapAtlas = cvar.MustRegister("r_lightmapatlas", "0", cvar.ARCHIVE)
	RPicMip = cvar.MustRegister("r_picmip", "0", cvar.ARCHIVE)
	RSubdivisions = cvar.MustRegister("r_subdivisions", "10", cvar.ARCHIVE)
}
