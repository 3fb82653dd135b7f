// Package query keeps a weighted history of executed searches and serves
// fuzzy suggestions from it.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/where"
	"golang.org/x/exp/slices"
)

// entry is one remembered keyword. Weight grows every time the keyword is
// searched again or one of its results gets opened.
type entry struct {
	Weight  int    `json:"weight"`
	Keyword string `json:"keyword"`
}

var history = gache.New[map[string]*entry](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// memo caches suggestion lists per input for the lifetime of the process.
var memo = make(map[string][]*entry)

// Remember stores a keyword or adds weight to one stored before.
func Remember(q string, weight int) error {
	q = normalize(q)

	keywords, expired, err := history.Get()
	if expired || err != nil || keywords == nil {
		keywords = make(map[string]*entry)
	}

	if known, ok := keywords[q]; ok {
		known.Weight += weight
	} else {
		keywords[q] = &entry{Weight: weight, Keyword: q}
	}

	return history.Set(keywords)
}

// Suggest returns the best-weighted suggestion for a partial input.
func Suggest(q string) mo.Option[string] {
	matches := SuggestMany(q)
	if len(matches) == 0 {
		return mo.None[string]()
	}

	return mo.Some(matches[0])
}

// SuggestMany returns every remembered keyword fuzzily matching the partial
// input, heaviest first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = normalize(q)

	matches, ok := memo[q]
	if !ok {
		keywords, expired, err := history.Get()
		if err != nil || expired || keywords == nil {
			return []string{}
		}

		for _, known := range keywords {
			if fuzzy.MatchNormalizedFold(q, known.Keyword) {
				matches = append(matches, known)
			}
		}

		slices.SortFunc(matches, func(a, b *entry) int {
			return b.Weight - a.Weight
		})

		memo[q] = matches
	}

	return lo.Map(matches, func(e *entry, _ int) string {
		return e.Keyword
	})
}

func normalize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
