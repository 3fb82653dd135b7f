// Package custom provides a bridge between the Go core and Lua-based adapter scripts.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/internal/scraper"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName derives the provider ID for a script basename. The suffix keeps
// script IDs from colliding with builtin site IDs.
func IDfromName(name string) string {
	return name + " custom"
}

// contractFns must all be defined by an adapter script before it is accepted.
var contractFns = []string{
	constant.SearchVideosFn,
	constant.VideoDetailFn,
}

// LoadSource compiles a Lua adapter script, wires in the host modules and
// validates the script's contract.
func LoadSource(path string) (source.Source, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSModule(state)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		return nil, err
	}

	name := util.FileStem(path)

	for _, fn := range contractFns {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	return newLuaSource(name, state), nil
}
