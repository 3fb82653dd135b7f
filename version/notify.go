package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/color"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
)

// Notify prints an update banner when a newer release exists. Lookup
// failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a newer version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s Update available: %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(you're on %s)", constant.Version)),
		style.Faint("https://github.com/vodhound/vodhound/releases/tag/v"+latest),
	)
}
