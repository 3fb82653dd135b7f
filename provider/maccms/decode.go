package maccms

import (
	"bytes"
	"encoding/json"

	"github.com/vodhound/vodhound/source"
)

// envelope is the maccms response as observed in the wild. Sites disagree on
// where the record list and pagination live, so every field is optional and
// extract reconciles the three known shapes:
//
//	{"list": [...], "page": 1, "pagecount": 3, "total": 48}
//	{"data": {"list": [...], ...pagination...}}
//	{"data": [...]}
type envelope struct {
	Code  flexInt          `json:"code"`
	Msg   string           `json:"msg"`
	Page  flexInt          `json:"page"`
	Count flexInt          `json:"pagecount"`
	Limit flexInt          `json:"limit"`
	Total flexInt          `json:"total"`
	List  []map[string]any `json:"list"`
	Data  json.RawMessage  `json:"data"`

	nested *envelope
}

func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	if err := decoder.Decode(&env); err != nil {
		return nil, err
	}

	if len(env.Data) > 0 {
		// Nested object shape first; a plain array decodes into List below.
		var inner envelope
		if err := json.Unmarshal(env.Data, &inner); err == nil && inner.List != nil {
			env.nested = &inner
		} else {
			var items []map[string]any
			if err := json.Unmarshal(env.Data, &items); err == nil {
				env.nested = &envelope{List: items}
			}
		}
	}

	return &env, nil
}

// extract returns the record items and, when the upstream reported one, the
// authoritative page state. Pagination fields are lifted from whichever
// level carries them; a reported total without a page count still yields a
// locally computed state since the total is what pagination derives from.
func (e *envelope) extract(page, pageSize int) ([]map[string]any, *source.PageState) {
	items := e.List
	carrier := e

	if items == nil && e.nested != nil {
		items = e.nested.List
		if e.nested.Count > 0 || e.nested.Total > 0 {
			carrier = e.nested
		}
	}

	if carrier.Count > 0 {
		state := source.PageState{
			CurrentPage: int(carrier.Page),
			PageSize:    int(carrier.Limit),
			TotalCount:  int(carrier.Total),
			TotalPages:  int(carrier.Count),
		}

		if state.CurrentPage < 1 {
			state.CurrentPage = page
		}

		if state.PageSize < 1 {
			state.PageSize = pageSize
		}

		return items, &state
	}

	if carrier.Total > 0 {
		state := source.NewPageState(page, pageSize, int(carrier.Total))
		return items, &state
	}

	return items, nil
}

func (e *envelope) totalCount() int {
	if e.Total > 0 {
		return int(e.Total)
	}

	if e.nested != nil && e.nested.Total > 0 {
		return int(e.nested.Total)
	}

	return 0
}
