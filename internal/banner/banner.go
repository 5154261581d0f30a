// Package banner renders the startup banner.
package banner

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgYellow)
)

const art = `                      _
 __      _____  _ __ __| |_ __ ___  ___
 \ \ /\ / / _ \| '__/ _` + "`" + ` | '__/ _ \/ __|
  \ V  V / (_) | | | (_| | | |  __/ (__
   \_/\_/ \___/|_|  \__,_|_|  \___|\___|
`

// Banner returns the banner for version, ending in a blank line.
func Banner(version string) string {
	return fmt.Sprintf("%s  %s %s\n\n", nameColor.Sprint(art), "isolated word recognizer", versionColor.Sprint(version))
}
