// Package inline implements the scriptable one-shot mode used from shell pipelines.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
)

// RecordPicker selects one record from the aggregated result set, nil when
// nothing matches.
type RecordPicker func([]*source.Record) *source.Record

type Options struct {
	Out          io.Writer
	Sources      []source.Source
	Keyword      string
	Page         int
	Json         bool
	IncludePlay  bool
	RecordPicker mo.Option[RecordPicker]
}

// at builds a picker for a fixed position, resolved against the final set
// size. Empty sets pick nothing.
func at(index func(n int) int) RecordPicker {
	return func(records []*source.Record) *source.Record {
		if len(records) == 0 {
			return nil
		}
		return records[index(len(records))]
	}
}

// ParseRecordPicker parses the CLI description of a picker.
// Accepted forms: "first", "last", "exact" (matches value against titles)
// and "index" (value is a zero-based position, clamped to the result set).
func ParseRecordPicker(kind, value string) (RecordPicker, error) {
	switch kind {
	case "first":
		return at(func(int) int { return 0 }), nil
	case "last":
		return at(func(n int) int { return n - 1 }), nil
	case "index":
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return at(func(n int) int { return util.Min(idx, n-1) }), nil
	case "exact":
		return func(records []*source.Record) *source.Record {
			for _, r := range records {
				if strings.EqualFold(r.Title, value) {
					return r
				}
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}
