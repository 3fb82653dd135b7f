// Package custom provides a bridge between the Go core and Lua-based adapter scripts.
package custom

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaSource is one loaded adapter script with its private Lua state.
type luaSource struct {
	name  string
	state *lua.LState
}

func newLuaSource(name string, state *lua.LState) *luaSource {
	return &luaSource{
		name:  name,
		state: state,
	}
}

func (s *luaSource) Name() string {
	return s.name
}

func (s *luaSource) ID() string {
	return IDfromName(s.name)
}

// invoke calls a global Lua function with the context attached and returns
// its nret results in declaration order.
func (s *luaSource) invoke(ctx context.Context, fn string, nret int, args ...lua.LValue) ([]lua.LValue, error) {
	target := s.state.GetGlobal(fn)
	if target.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	s.state.SetContext(ctx)

	err := s.state.CallByParam(lua.P{
		Fn:      target,
		NRet:    nret,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	results := make([]lua.LValue, nret)
	for i := nret - 1; i >= 0; i-- {
		results[i] = s.state.Get(-1)
		s.state.Pop(1)
	}

	return results, nil
}

// call runs fn and type-checks its single result.
func (s *luaSource) call(ctx context.Context, fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	results, err := s.invoke(ctx, fn, 1, args...)
	if err != nil {
		return nil, err
	}

	if results[0].Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, results[0].Type(), retType)
	}

	return results[0], nil
}

// callPair runs fn expecting two results. The second is optional on the Lua
// side and comes back as LNil when omitted.
func (s *luaSource) callPair(ctx context.Context, fn string, args ...lua.LValue) (lua.LValue, lua.LValue, error) {
	results, err := s.invoke(ctx, fn, 2, args...)
	if err != nil {
		return nil, nil, err
	}

	return results[0], results[1], nil
}
