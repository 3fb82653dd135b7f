// Package icon renders the UI symbols printed by the CLI, mini and TUI
// surfaces in whichever variant the user configured.
//
// Variants range from emoji through nerd-font glyphs down to plain ASCII
// for terminals without wide glyph support.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/key"
)

// Variant names as accepted by the icons config key.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists every variant name the icons config key accepts.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a registered UI symbol.
type Icon int

// Registered symbols used across the CLI, mini and TUI surfaces.
const (
	Success Icon = iota + 1
	Fail
	Progress
	Question
	Search
	Site
	Video
	Clock
	Lua
)

// icons maps each symbol to its form under every variant.
var icons = map[Icon]map[string]string{
	Success:  {emoji: "✅", nerd: "", plain: "[ok]", kaomoji: "(•̀ᴗ•́)و", squares: "🟩"},
	Fail:     {emoji: "❌", nerd: "", plain: "[fail]", kaomoji: "(╯°□°)╯", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(−_−;)", squares: "🟨"},
	Question: {emoji: "❓", nerd: "", plain: "?", kaomoji: "(・・?)", squares: "🟦"},
	Search:   {emoji: "🔍", nerd: "", plain: ">", kaomoji: "(☉_☉)", squares: "🟪"},
	Site:     {emoji: "📡", nerd: "", plain: "*", kaomoji: "(¬‿¬)", squares: "🟫"},
	Video:    {emoji: "🎬", nerd: "", plain: "#", kaomoji: "(^_^)", squares: "⬜"},
	Clock:    {emoji: "⏱️", nerd: "", plain: "~", kaomoji: "(o_o)", squares: "🟧"},
	Lua:      {emoji: "🌙", nerd: "", plain: "(lua)", kaomoji: "(luna)", squares: "⬛"},
}

// Get returns the symbol rendered in the configured variant, or an empty
// string when the variant is unknown.
func Get(i Icon) string {
	return icons[i][viper.GetString(key.IconsVariant)]
}
