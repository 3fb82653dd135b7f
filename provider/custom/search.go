// Package custom provides a bridge between the Go core and Lua-based adapter scripts.
package custom

import (
	"context"
	"fmt"

	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/internal/cache"
	"github.com/vodhound/vodhound/source"
	lua "github.com/yuin/gopher-lua"
)

func (s *luaSource) Search(ctx context.Context, keyword string, page, pageSize int) (*source.Reply, error) {
	if err := source.ValidatePageArgs(page, pageSize); err != nil {
		return nil, err
	}

	cacheKey := cache.Key(s.ID(), keyword, page, pageSize)
	var cached source.Reply
	if cache.Read(cacheKey, &cached) {
		return &cached, nil
	}

	listVal, pageVal, err := s.callPair(ctx, constant.SearchVideosFn, lua.LString(keyword), lua.LNumber(page))
	if err != nil {
		return nil, err
	}

	if listVal.Type() != lua.LTTable {
		return nil, fmt.Errorf("%s returned %s, expected %s", constant.SearchVideosFn, listVal.Type(), lua.LTTable)
	}

	table := listVal.(*lua.LTable)
	var records []*source.Record

	var errs []error
	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return // Skip invalid entries
		}

		record, err := recordFromTable(v.(*lua.LTable), s.Name())
		if err != nil {
			errs = append(errs, err)
			return
		}

		records = append(records, record)
	})

	if len(records) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	var pagination *source.PageState
	if pageVal.Type() == lua.LTTable {
		pagination = pageStateFromTable(pageVal.(*lua.LTable), page, pageSize)
	}

	reply := &source.Reply{
		SiteName:   s.Name(),
		Records:    records,
		Pagination: pagination,
	}
	if pagination != nil {
		reply.TotalCount = pagination.TotalCount
	}

	if len(records) > 0 {
		_ = cache.Write(cacheKey, reply)
	}

	return reply, nil
}
