package output

// languageColors maps known language names to their conventional hex
// colors. Unknown languages fall back to defaultLanguageColor.
var languageColors = map[string]string{
	"JavaScript":       "#f1e05a",
	"TypeScript":       "#3178c6",
	"Python":           "#3572A5",
	"Java":             "#b07219",
	"Go":               "#00ADD8",
	"Rust":             "#dea584",
	"C":                "#555555",
	"C++":              "#f34b7d",
	"C#":               "#178600",
	"Ruby":             "#701516",
	"PHP":              "#4F5D95",
	"Swift":            "#F05138",
	"Kotlin":           "#A97BFF",
	"Dart":             "#00B4AB",
	"Scala":            "#c22d40",
	"Elixir":           "#6e4a7e",
	"Haskell":          "#5e5086",
	"Lua":              "#000080",
	"Perl":             "#0298c3",
	"R":                "#198CE7",
	"Shell":            "#89e051",
	"PowerShell":       "#012456",
	"HTML":             "#e34c26",
	"CSS":              "#563d7c",
	"SCSS":             "#c6538c",
	"Vue":              "#41b883",
	"Svelte":           "#ff3e00",
	"Objective-C":      "#438eff",
	"Zig":              "#ec915c",
	"OCaml":            "#ef7a08",
	"Clojure":          "#db5855",
	"Erlang":           "#B83998",
	"Julia":            "#a270ba",
	"Nix":              "#7e7eff",
	"Dockerfile":       "#384d54",
	"Makefile":         "#427819",
	"Jupyter Notebook": "#DA5B0B",
}

const defaultLanguageColor = "#8b949e"

// LanguageColor returns the display color for a language name, falling
// back to a single default for unknown languages.
func LanguageColor(name string) string {
	if c, ok := languageColors[name]; ok {
		return c
	}
	return defaultLanguageColor
}
