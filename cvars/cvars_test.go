// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"goq3bsp/conlog"
)

func TestDeveloper(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	defer Developer.SetByString("0")

	Developer.SetByString("1")
	conlog.DPrintf("shown\n")
	Developer.SetByString("0")
	conlog.DPrintf("hidden\n")
	if out := buf.String(); !strings.Contains(out, "shown") || strings.Contains(out, "hidden") {
		t.Errorf("developer output = %q", out)
	}
}
