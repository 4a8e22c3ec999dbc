package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Video
	Link
	Extractor
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "+",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(o_O)",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "~",
		kaomoji: "(・_・ヾ",
		squares: "🟦",
	},
	Video: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(⌐■_■)",
		squares: "🟪",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "-",
		kaomoji: "(☞ﾟ∀ﾟ)☞",
		squares: "⬜",
	},
	Extractor: {
		emoji:   "🧩",
		nerd:    "",
		plain:   "*",
		kaomoji: "(•̀ᴗ•́)و",
		squares: "🟧",
	},
}
