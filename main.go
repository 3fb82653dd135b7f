// Package main is the entry point for the vodhound application.
package main

import (
	"github.com/samber/lo"
	"github.com/vodhound/vodhound/cmd"
	"github.com/vodhound/vodhound/config"
	"github.com/vodhound/vodhound/internal/cache"
	"github.com/vodhound/vodhound/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Expired cache entries are swept while the UI starts up.
	go cache.CollectGarbage()

	cmd.Execute()
}
