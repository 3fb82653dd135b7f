// Package custom provides a bridge between the Go core and Lua-based adapter scripts.
package custom

import (
	"context"

	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/source"
	lua "github.com/yuin/gopher-lua"
)

// Detail resolves the play sources of a single video. Scripts look records up
// by id alone, so the keyword goes unused here.
func (s *luaSource) Detail(ctx context.Context, _, id string) (*source.Record, error) {
	// No caching for details (play links expire)

	val, err := s.call(ctx, constant.VideoDetailFn, lua.LTTable, lua.LString(id))
	if err != nil {
		return nil, err
	}

	return recordFromTable(val.(*lua.LTable), s.Name())
}
