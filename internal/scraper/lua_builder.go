// Package scraper compiles and runs the Lua scripts behind custom site adapters.
package scraper

import (
	"sync"

	"github.com/vodhound/vodhound/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// protos caches compiled bytecode per script path, so a script shared by
// several adapter states parses at most once per process.
var protos sync.Map

// PreCompileAndLoad runs the script at scriptPath inside L.
func PreCompileAndLoad(L *lua.LState, scriptPath string) error {
	proto, err := compile(scriptPath)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func compile(scriptPath string) (*lua.FunctionProto, error) {
	if cached, ok := protos.Load(scriptPath); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(scriptPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, scriptPath)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, scriptPath)
	if err != nil {
		return nil, err
	}

	protos.Store(scriptPath, proto)
	return proto, nil
}
