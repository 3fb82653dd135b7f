// Package provider manages built-in and custom search providers.
package provider

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/provider/custom"
	"github.com/vodhound/vodhound/provider/maccms"
	"github.com/vodhound/vodhound/site"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/util"
	"github.com/vodhound/vodhound/where"
)

// CustomProviderExtension is the file extension of custom Lua adapter scripts.
const CustomProviderExtension = ".lua"

// commonScript is shared helper code, not an adapter, so the scan skips it.
const commonScript = "common.lua"

// Provider describes a searchable site and constructs its Source on demand.
type Provider struct {
	ID       string
	Name     string
	IsCustom bool // Lua adapter scripts.

	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins lists providers backed by the collection protocol, one per
// enabled registry site. A broken registry reads as no builtins.
func Builtins() []*Provider {
	providers, _ := BuiltinProviders()
	return providers
}

// Customs lists the Lua adapter providers found in the sources directory.
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// All returns builtin and custom providers, builtins first.
func All() []*Provider {
	return append(Builtins(), Customs()...)
}

// Get finds a provider by id or name, case-insensitively.
func Get(name string) (*Provider, bool) {
	for _, p := range All() {
		if strings.EqualFold(p.ID, name) || strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

func BuiltinProviders() ([]*Provider, error) {
	registry, err := site.Open()
	if err != nil {
		return nil, err
	}

	return lo.Map(registry.Enabled(), func(s *site.Site, _ int) *Provider {
		return &Provider{
			ID:   s.ID,
			Name: s.Name,
			CreateSource: func() (source.Source, error) {
				return maccms.New(s), nil
			},
		}
	}), nil
}

func CustomProviders() ([]*Provider, error) {
	dir := where.Sources()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(files, func(f os.FileInfo, _ int) (*Provider, bool) {
		if filepath.Ext(f.Name()) != CustomProviderExtension || f.Name() == commonScript {
			return nil, false
		}

		var (
			path = filepath.Join(dir, f.Name())
			name = util.FileStem(f.Name())
		)

		return &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			CreateSource: func() (source.Source, error) {
				return custom.LoadSource(path)
			},
		}, true
	}), nil
}
